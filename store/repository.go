package store

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	vulnerability "github.com/quantumx/qvr-backend/events/modules/vulnerabilities"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/util"
	"go.uber.org/zap"
)

// Repository exposes the registry operations used by the API layer. A nil backend means the
// backend configuration is absent: reads are served from the demo dataset and writes fail
// with ConfigMissing.
type Repository struct {
	backend Backend
	events  vulnerability.Publisher
	logger  *zap.Logger
	newID   func() string
}

// Option customizes a Repository
type Option func(*Repository)

// WithPublisher sends registry events to p after successful mutations.
func WithPublisher(p vulnerability.Publisher) Option {
	return func(r *Repository) {
		if p != nil {
			r.events = p
		}
	}
}

// WithIDGenerator replaces the UUID generator used by Create.
func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// New returns a repository over backend, which may be nil.
func New(backend Backend, logger *zap.Logger, opts ...Option) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Repository{
		backend: backend,
		events:  vulnerability.NopPublisher{},
		logger:  logger,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Configured reports whether a backend is attached.
func (r *Repository) Configured() bool {
	return r.backend != nil
}

// BackendName names the attached backend, "demo" when none is.
func (r *Repository) BackendName() string {
	if r.backend == nil {
		return "demo"
	}
	return r.backend.Name()
}

// ListPublished returns the Published records, highest score first and newest first within a
// score. A missing configuration or a failing backend yields the demo dataset.
func (r *Repository) ListPublished(ctx context.Context) Result[[]model.VulnerableSystem] {
	return r.list(ctx, ListFilter{PublishedOnly: true})
}

// ListAll returns every record regardless of status, with the ordering and fallback of
// ListPublished.
func (r *Repository) ListAll(ctx context.Context) Result[[]model.VulnerableSystem] {
	return r.list(ctx, ListFilter{})
}

func (r *Repository) list(ctx context.Context, filter ListFilter) Result[[]model.VulnerableSystem] {
	if r.backend == nil {
		return r.demoList(filter)
	}

	systems, err := r.backend.List(ctx, filter)
	if err != nil {
		r.logger.Warn("backend list failed, serving demo data",
			zap.String("backend", r.backend.Name()),
			zap.Bool("published_only", filter.PublishedOnly),
			zap.Error(err))
		return r.demoList(filter)
	}

	if filter.PublishedOnly {
		systems = publishedOnly(systems)
	}
	if systems == nil {
		systems = []model.VulnerableSystem{}
	}
	sortSystems(systems)
	return ok(systems)
}

func (r *Repository) demoList(filter ListFilter) Result[[]model.VulnerableSystem] {
	systems := DemoSystems()
	if filter.PublishedOnly {
		systems = publishedOnly(systems)
	}
	sortSystems(systems)
	res := ok(systems)
	res.Demo = true
	return res
}

// GetByID fetches one record in any status. A missing record is reported with kind NotFound
// and nil Data.
func (r *Repository) GetByID(ctx context.Context, id string) Result[*model.VulnerableSystem] {
	const op = "get"

	id = strings.TrimSpace(id)
	if id == "" {
		return fail[*model.VulnerableSystem](Validation(op, &model.ValidationError{Field: "id", Message: "Document ID is required"}))
	}

	if r.backend == nil {
		for _, v := range DemoSystems() {
			if v.ID == id {
				v := v
				res := ok(&v)
				res.Demo = true
				return res
			}
		}
		return fail[*model.VulnerableSystem](NotFound(op, id))
	}

	v, err := r.backend.Get(ctx, id)
	if err != nil {
		return fail[*model.VulnerableSystem](r.wrap(op, id, err))
	}
	return ok(&v)
}

// Submit stores an anonymous submission. Submissions always start as pending.
func (r *Repository) Submit(ctx context.Context, fields model.Fields) Result[string] {
	return r.create(ctx, fields, model.StatusPending, vulnerability.EventSubmitted)
}

// Create stores a new record with the given status, pending when empty, and returns its id.
func (r *Repository) Create(ctx context.Context, fields model.Fields, status model.Status) Result[string] {
	if status == "" {
		status = model.StatusPending
	}
	return r.create(ctx, fields, status, vulnerability.EventCreated)
}

func (r *Repository) create(ctx context.Context, fields model.Fields, status model.Status, event vulnerability.EventType) Result[string] {
	const op = "create"

	if !status.Valid() {
		return fail[string](Validation(op, invalidStatus(status)))
	}
	if err := validateFields(fields); err != nil {
		return fail[string](Validation(op, err))
	}
	if r.backend == nil {
		return fail[string](&Error{Kind: KindConfigMissing, Op: op, Err: ErrConfigMissing})
	}

	id := r.newID()
	if err := r.backend.Create(ctx, id, fields, status); err != nil {
		return fail[string](r.wrap(op, id, err))
	}

	r.logger.Info("vulnerable system created",
		zap.String("id", id), zap.String("status", string(status)), zap.String("backend", r.backend.Name()))
	r.publish(ctx, vulnerability.NewEvent(event, id, status))
	return ok(id)
}

// Update writes the fields present in patch. A status carried by the patch is applied too.
func (r *Repository) Update(ctx context.Context, id string, patch model.Patch) Result[string] {
	const op = "update"

	id = strings.TrimSpace(id)
	if id == "" {
		return fail[string](Validation(op, &model.ValidationError{Field: "id", Message: "Document ID is required"}))
	}
	if patch.IsEmpty() {
		return fail[string](Validation(op, &model.ValidationError{Message: "No fields to update"}))
	}
	if err := validatePatch(patch); err != nil {
		return fail[string](Validation(op, err))
	}
	if r.backend == nil {
		return fail[string](&Error{Kind: KindConfigMissing, Op: op, Err: ErrConfigMissing})
	}

	if err := r.backend.Update(ctx, id, patch); err != nil {
		return fail[string](r.wrap(op, id, err))
	}

	var status model.Status
	if patch.Status != nil {
		status = *patch.Status
	}
	r.logger.Info("vulnerable system updated", zap.String("id", id), zap.Strings("fields", PatchFields(patch)))
	r.publish(ctx, vulnerability.NewEvent(vulnerability.EventUpdated, id, status, PatchFields(patch)...))
	return ok(id)
}

// UpdateStatus writes only the status field.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status model.Status) Result[string] {
	const op = "update status"

	id = strings.TrimSpace(id)
	if id == "" {
		return fail[string](Validation(op, &model.ValidationError{Field: "id", Message: "Document ID is required"}))
	}
	if !status.Valid() {
		return fail[string](Validation(op, invalidStatus(status)))
	}
	if r.backend == nil {
		return fail[string](&Error{Kind: KindConfigMissing, Op: op, Err: ErrConfigMissing})
	}

	if err := r.backend.Update(ctx, id, model.Patch{Status: &status}); err != nil {
		return fail[string](r.wrap(op, id, err))
	}

	r.logger.Info("vulnerable system status changed", zap.String("id", id), zap.String("status", string(status)))
	r.publish(ctx, vulnerability.NewEvent(vulnerability.EventStatusChanged, id, status))
	return ok(id)
}

// Delete removes a record. Deleting a missing id reports NotFound.
func (r *Repository) Delete(ctx context.Context, id string) Result[string] {
	const op = "delete"

	id = strings.TrimSpace(id)
	if id == "" {
		return fail[string](Validation(op, &model.ValidationError{Field: "id", Message: "Document ID is required"}))
	}
	if r.backend == nil {
		return fail[string](&Error{Kind: KindConfigMissing, Op: op, Err: ErrConfigMissing})
	}

	if err := r.backend.Delete(ctx, id); err != nil {
		return fail[string](r.wrap(op, id, err))
	}

	r.logger.Info("vulnerable system deleted", zap.String("id", id))
	r.publish(ctx, vulnerability.NewEvent(vulnerability.EventDeleted, id, ""))
	return ok(id)
}

// wrap keeps typed backend errors and classifies everything else as a backend failure.
func (r *Repository) wrap(op, id string, err error) error {
	if KindOf(err) == KindUnknown {
		err = BackendError(op, err)
	}
	if KindOf(err) != KindNotFound {
		r.logger.Error("backend call failed",
			zap.String("op", op), zap.String("id", id), zap.String("backend", r.backend.Name()), zap.Error(err))
	}
	return err
}

func (r *Repository) publish(ctx context.Context, event vulnerability.RegistryEvent) {
	if err := r.events.Publish(ctx, event); err != nil {
		r.logger.Warn("failed to publish registry event",
			zap.String("type", string(event.EventType)), zap.String("system_id", event.SystemID), zap.Error(err))
	}
}

func publishedOnly(systems []model.VulnerableSystem) []model.VulnerableSystem {
	out := make([]model.VulnerableSystem, 0, len(systems))
	for _, v := range systems {
		if v.Status == model.StatusVerified {
			out = append(out, v)
		}
	}
	return out
}

// sortSystems orders by score descending, then discovery time descending.
func sortSystems(systems []model.VulnerableSystem) {
	sort.SliceStable(systems, func(i, j int) bool {
		if systems[i].Score != systems[j].Score {
			return systems[i].Score > systems[j].Score
		}
		return systems[i].DiscoveredAt().After(systems[j].DiscoveredAt())
	})
}

func invalidStatus(status model.Status) error {
	return &model.ValidationError{
		Field:   "status",
		Message: "Invalid status: " + string(status) + ". Must be one of: pending, under-review, verified",
	}
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &model.ValidationError{Field: field, Message: "Missing required field: " + field}
	}
	return nil
}

func requireList(field string, items []string) error {
	if len(items) == 0 {
		return &model.ValidationError{Field: field, Message: "Missing required field: " + field}
	}
	return checkList(field, items)
}

func checkList(field string, items []string) error {
	if err := util.CheckListItems(field, items); err != nil {
		return &model.ValidationError{Field: field, Message: err.Error()}
	}
	return nil
}

func checkEnums(risk *model.QuantumRiskLevel, severity *model.VulnerabilityLevel, score *float64) error {
	if risk != nil && !risk.Valid() {
		return &model.ValidationError{Field: "quantum_risk_level", Message: "Invalid quantum_risk_level: " + string(*risk)}
	}
	if severity != nil && !severity.Valid() {
		return &model.ValidationError{Field: "vulnerability_level", Message: "Invalid vulnerability_level: " + string(*severity)}
	}
	if score != nil {
		if err := model.ValidateScore(*score); err != nil {
			return &model.ValidationError{Field: "score", Message: err.Error()}
		}
	}
	return nil
}

// validateFields applies the submission rules to a full record.
func validateFields(f model.Fields) error {
	checks := []func() error{
		func() error { return requireText("name", f.Name) },
		func() error { return requireText("description", f.Description) },
		func() error { return requireText("weakness_reason", f.WeaknessReason) },
		func() error { return requireList("current_cryptography", f.CurrentCryptography) },
		func() error { return requireList("affected_protocols", f.AffectedProtocols) },
		func() error { return requireText("organization", f.Organization) },
		func() error { return requireText("quantum_risk_level", string(f.QuantumRiskLevel)) },
		func() error { return requireText("vulnerability_level", string(f.VulnerabilityLevel)) },
		func() error { return checkEnums(&f.QuantumRiskLevel, &f.VulnerabilityLevel, &f.Score) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// validatePatch applies the same rules to the present fields of a patch.
func validatePatch(p model.Patch) error {
	texts := []struct {
		field string
		value *string
	}{
		{"name", p.Name},
		{"description", p.Description},
		{"weakness_reason", p.WeaknessReason},
		{"organization", p.Organization},
	}
	for _, t := range texts {
		if t.value != nil {
			if err := requireText(t.field, *t.value); err != nil {
				return err
			}
		}
	}
	if p.CurrentCryptography != nil {
		if err := requireList("current_cryptography", p.CurrentCryptography); err != nil {
			return err
		}
	}
	if p.AffectedProtocols != nil {
		if err := requireList("affected_protocols", p.AffectedProtocols); err != nil {
			return err
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalidStatus(*p.Status)
	}
	return checkEnums(p.QuantumRiskLevel, p.VulnerabilityLevel, p.Score)
}

// PatchFields lists the JSON names of the fields present in p.
func PatchFields(p model.Patch) []string {
	var names []string
	add := func(present bool, name string) {
		if present {
			names = append(names, name)
		}
	}
	add(p.Name != nil, "name")
	add(p.Description != nil, "description")
	add(p.SystemCategory != nil, "system_category")
	add(p.UseCase != nil, "use_case")
	add(p.QuantumRiskLevel != nil, "quantum_risk_level")
	add(p.VulnerabilityLevel != nil, "vulnerability_level")
	add(p.Score != nil, "score")
	add(p.WeaknessReason != nil, "weakness_reason")
	add(p.CurrentCryptography != nil, "current_cryptography")
	add(p.AffectedProtocols != nil, "affected_protocols")
	add(p.QuantumXRecommendation != nil, "quantumx_recommendation")
	add(p.Mitigation != nil, "mitigation")
	add(p.Organization != nil, "organization")
	add(p.Status != nil, "status")
	return names
}
