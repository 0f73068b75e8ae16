// Package vulnerability defines the registry change events published to Kafka.
package vulnerability

import (
	"context"
	"time"

	"github.com/quantumx/qvr-backend/model"
)

// EventType names a registry change
type EventType string

// Registry event types
const (
	EventSubmitted     EventType = "vulnerability.submitted"
	EventCreated       EventType = "vulnerability.created"
	EventUpdated       EventType = "vulnerability.updated"
	EventStatusChanged EventType = "vulnerability.status_changed"
	EventDeleted       EventType = "vulnerability.deleted"
)

// SchemaVersion of the event contract
const SchemaVersion = "v1"

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventSubmitted, EventCreated, EventUpdated, EventStatusChanged, EventDeleted:
		return true
	}
	return false
}

// RegistryEvent is the event contract written to the registry topic.
type RegistryEvent struct {
	EventType     EventType `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	SystemID string `json:"system_id"`

	// Status is the record status after the change; empty for deletes and field updates.
	Status model.Status `json:"status,omitempty"`

	// Fields lists the JSON names written by an update.
	Fields []string `json:"fields,omitempty"`
}

// Publisher delivers registry events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event RegistryEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, RegistryEvent) error { return nil }

// Close implements Publisher
func (NopPublisher) Close() error { return nil }
