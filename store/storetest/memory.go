// Package storetest provides an in-memory store.Backend for tests.
package storetest

import (
	"context"
	"sync"
	"time"

	vulnerability "github.com/quantumx/qvr-backend/events/modules/vulnerabilities"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/store"
)

// Backend keeps records in a map. Setting Err makes every call fail with it.
type Backend struct {
	mu      sync.Mutex
	records map[string]model.VulnerableSystem
	clock   time.Time

	Err   error
	Calls []string
}

// NewBackend returns a backend seeded with systems.
func NewBackend(systems ...model.VulnerableSystem) *Backend {
	b := &Backend{
		records: map[string]model.VulnerableSystem{},
		clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, v := range systems {
		b.records[v.ID] = v
	}
	return b
}

// Name implements store.Backend
func (b *Backend) Name() string { return "memory" }

func (b *Backend) record(call string) error {
	b.Calls = append(b.Calls, call)
	return b.Err
}

// List implements store.Backend
func (b *Backend) List(_ context.Context, filter store.ListFilter) ([]model.VulnerableSystem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("list"); err != nil {
		return nil, err
	}

	out := []model.VulnerableSystem{}
	for _, v := range b.records {
		if filter.PublishedOnly && v.Status != model.StatusVerified {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Get implements store.Backend
func (b *Backend) Get(_ context.Context, id string) (model.VulnerableSystem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("get"); err != nil {
		return model.VulnerableSystem{}, err
	}

	v, ok := b.records[id]
	if !ok {
		return model.VulnerableSystem{}, store.NotFound("get", id)
	}
	return v, nil
}

// Create implements store.Backend. Each record is one second newer than the previous one.
func (b *Backend) Create(_ context.Context, id string, fields model.Fields, status model.Status) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("create"); err != nil {
		return err
	}

	b.clock = b.clock.Add(time.Second)
	b.records[id] = model.VulnerableSystem{
		ID:                     id,
		Name:                   fields.Name,
		Description:            fields.Description,
		SystemCategory:         fields.SystemCategory,
		UseCase:                fields.UseCase,
		QuantumRiskLevel:       fields.QuantumRiskLevel,
		VulnerabilityLevel:     fields.VulnerabilityLevel,
		Score:                  fields.Score,
		WeaknessReason:         fields.WeaknessReason,
		CurrentCryptography:    append([]string{}, fields.CurrentCryptography...),
		AffectedProtocols:      append([]string{}, fields.AffectedProtocols...),
		QuantumXRecommendation: fields.QuantumXRecommendation,
		Mitigation:             fields.Mitigation,
		DiscoveredDate:         b.clock.Format(time.RFC3339Nano),
		Organization:           fields.Organization,
		Status:                 status,
	}
	return nil
}

// Update implements store.Backend
func (b *Backend) Update(_ context.Context, id string, patch model.Patch) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("update"); err != nil {
		return err
	}

	v, ok := b.records[id]
	if !ok {
		return store.NotFound("update", id)
	}
	b.records[id] = patch.Apply(v)
	return nil
}

// Delete implements store.Backend
func (b *Backend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("delete"); err != nil {
		return err
	}

	if _, ok := b.records[id]; !ok {
		return store.NotFound("delete", id)
	}
	delete(b.records, id)
	return nil
}

// Len reports the number of stored records
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// Publisher records published registry events
type Publisher struct {
	mu     sync.Mutex
	Err    error
	Events []vulnerability.RegistryEvent
}

// Publish implements vulnerability.Publisher
func (p *Publisher) Publish(_ context.Context, event vulnerability.RegistryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return p.Err
}

// Close implements vulnerability.Publisher
func (p *Publisher) Close() error { return nil }

// Types lists the recorded event types in order
func (p *Publisher) Types() []vulnerability.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]vulnerability.EventType, 0, len(p.Events))
	for _, e := range p.Events {
		out = append(out, e.EventType)
	}
	return out
}

var _ store.Backend = (*Backend)(nil)
