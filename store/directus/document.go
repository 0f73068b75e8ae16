package directus

import (
	"fmt"

	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/util"
)

// Item is a row of the Directus registry collection. Field names follow the API, list fields
// are stored as comma-joined strings.
type Item struct {
	ID                     string            `json:"id,omitempty"`
	DateCreated            string            `json:"date_created,omitempty"`
	Name                   string            `json:"name"`
	Description            string            `json:"description"`
	SystemCategory         *string           `json:"system_category,omitempty"`
	UseCase                *string           `json:"use_case,omitempty"`
	QuantumRiskLevel       string            `json:"quantum_risk_level"`
	VulnerabilityLevel     string            `json:"vulnerability_level"`
	Score                  float64           `json:"score"`
	WeaknessReason         string            `json:"weakness_reason"`
	CurrentCryptography    string            `json:"current_cryptography"`
	AffectedProtocols      string            `json:"affected_protocols"`
	QuantumXRecommendation *string           `json:"quantumx_recommendation,omitempty"`
	Mitigation             *string           `json:"mitigation,omitempty"`
	Organization           string            `json:"organization"`
	EntryStatus            model.EntryStatus `json:"entry_status,omitempty"`
}

// ItemPatch carries only the fields being changed
type ItemPatch struct {
	Name                   *string            `json:"name,omitempty"`
	Description            *string            `json:"description,omitempty"`
	SystemCategory         *string            `json:"system_category,omitempty"`
	UseCase                *string            `json:"use_case,omitempty"`
	QuantumRiskLevel       *string            `json:"quantum_risk_level,omitempty"`
	VulnerabilityLevel     *string            `json:"vulnerability_level,omitempty"`
	Score                  *float64           `json:"score,omitempty"`
	WeaknessReason         *string            `json:"weakness_reason,omitempty"`
	CurrentCryptography    *string            `json:"current_cryptography,omitempty"`
	AffectedProtocols      *string            `json:"affected_protocols,omitempty"`
	QuantumXRecommendation *string            `json:"quantumx_recommendation,omitempty"`
	Mitigation             *string            `json:"mitigation,omitempty"`
	Organization           *string            `json:"organization,omitempty"`
	EntryStatus            *model.EntryStatus `json:"entry_status,omitempty"`
}

func fromBackend(item Item) (model.VulnerableSystem, error) {
	status, err := item.EntryStatus.Status()
	if err != nil {
		return model.VulnerableSystem{}, fmt.Errorf("item %s: %w", item.ID, err)
	}

	return model.VulnerableSystem{
		ID:                     item.ID,
		Name:                   item.Name,
		Description:            item.Description,
		SystemCategory:         item.SystemCategory,
		UseCase:                item.UseCase,
		QuantumRiskLevel:       model.QuantumRiskLevel(item.QuantumRiskLevel),
		VulnerabilityLevel:     model.VulnerabilityLevel(item.VulnerabilityLevel),
		Score:                  item.Score,
		WeaknessReason:         item.WeaknessReason,
		CurrentCryptography:    util.SplitList(item.CurrentCryptography),
		AffectedProtocols:      util.SplitList(item.AffectedProtocols),
		QuantumXRecommendation: item.QuantumXRecommendation,
		Mitigation:             item.Mitigation,
		DiscoveredDate:         item.DateCreated,
		Organization:           item.Organization,
		Status:                 status,
	}, nil
}

func toBackend(f model.Fields) Item {
	return Item{
		Name:                   f.Name,
		Description:            f.Description,
		SystemCategory:         f.SystemCategory,
		UseCase:                f.UseCase,
		QuantumRiskLevel:       string(f.QuantumRiskLevel),
		VulnerabilityLevel:     string(f.VulnerabilityLevel),
		Score:                  f.Score,
		WeaknessReason:         f.WeaknessReason,
		CurrentCryptography:    util.JoinList(f.CurrentCryptography),
		AffectedProtocols:      util.JoinList(f.AffectedProtocols),
		QuantumXRecommendation: f.QuantumXRecommendation,
		Mitigation:             f.Mitigation,
		Organization:           f.Organization,
	}
}

func toBackendPatch(p model.Patch) (ItemPatch, error) {
	out := ItemPatch{
		Name:                   p.Name,
		Description:            p.Description,
		SystemCategory:         p.SystemCategory,
		UseCase:                p.UseCase,
		Score:                  p.Score,
		WeaknessReason:         p.WeaknessReason,
		QuantumXRecommendation: p.QuantumXRecommendation,
		Mitigation:             p.Mitigation,
		Organization:           p.Organization,
	}
	if p.QuantumRiskLevel != nil {
		out.QuantumRiskLevel = model.StringPtr(string(*p.QuantumRiskLevel))
	}
	if p.VulnerabilityLevel != nil {
		out.VulnerabilityLevel = model.StringPtr(string(*p.VulnerabilityLevel))
	}
	if p.CurrentCryptography != nil {
		out.CurrentCryptography = model.StringPtr(util.JoinList(p.CurrentCryptography))
	}
	if p.AffectedProtocols != nil {
		out.AffectedProtocols = model.StringPtr(util.JoinList(p.AffectedProtocols))
	}
	if p.Status != nil {
		entry, err := p.Status.Entry()
		if err != nil {
			return ItemPatch{}, err
		}
		out.EntryStatus = &entry
	}
	return out, nil
}
