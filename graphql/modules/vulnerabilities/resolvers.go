package vulnerabilities

import (
	"context"
	"errors"

	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/store"
)

// Filter narrows the published list. Zero values match everything.
type Filter struct {
	RiskLevel model.QuantumRiskLevel
	Severity  model.VulnerabilityLevel
}

func (f Filter) matches(v model.VulnerableSystem) bool {
	if f.RiskLevel != "" && v.QuantumRiskLevel != f.RiskLevel {
		return false
	}
	if f.Severity != "" && v.VulnerabilityLevel != f.Severity {
		return false
	}
	return true
}

// ResolveVulnerableSystems returns published records matching filter in repository order.
func ResolveVulnerableSystems(ctx context.Context, repo *store.Repository, filter Filter) ([]model.VulnerableSystem, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	res := repo.ListPublished(ctx)
	if !res.Success {
		return nil, errors.New(res.Error)
	}

	systems := make([]model.VulnerableSystem, 0, len(res.Data))
	for _, v := range res.Data {
		if filter.matches(v) {
			systems = append(systems, v)
		}
	}
	return systems, nil
}

// ResolveVulnerableSystem returns the record only when it is published. Missing and
// unpublished ids both resolve to nil so the public surface does not reveal pending entries.
func ResolveVulnerableSystem(ctx context.Context, repo *store.Repository, id string) (*model.VulnerableSystem, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	res := repo.GetByID(ctx, id)
	if !res.Success {
		switch res.Kind() {
		case store.KindNotFound, store.KindValidation:
			return nil, nil
		}
		return nil, errors.New(res.Error)
	}
	if res.Data.Status != model.StatusVerified {
		return nil, nil
	}
	return res.Data, nil
}
