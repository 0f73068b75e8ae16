package arango

import (
	"fmt"

	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/util"
)

// Document is a registry record as stored in the ArangoDB collection
type Document struct {
	Key                    string            `json:"_key,omitempty"`
	CreatedAt              string            `json:"created_at,omitempty"`
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

// DocumentPatch is bound into the UPDATE statement; nil fields are omitted
type DocumentPatch struct {
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

func fromBackend(doc Document) (model.VulnerableSystem, error) {
	status, err := doc.EntryStatus.Status()
	if err != nil {
		return model.VulnerableSystem{}, fmt.Errorf("document %s: %w", doc.Key, err)
	}

	return model.VulnerableSystem{
		ID:                     doc.Key,
		Name:                   doc.Name,
		Description:            doc.Description,
		SystemCategory:         doc.SystemCategory,
		UseCase:                doc.UseCase,
		QuantumRiskLevel:       model.QuantumRiskLevel(doc.QuantumRiskLevel),
		VulnerabilityLevel:     model.VulnerabilityLevel(doc.VulnerabilityLevel),
		Score:                  doc.Score,
		WeaknessReason:         doc.WeaknessReason,
		CurrentCryptography:    util.SplitList(doc.CurrentCryptography),
		AffectedProtocols:      util.SplitList(doc.AffectedProtocols),
		QuantumXRecommendation: doc.QuantumXRecommendation,
		Mitigation:             doc.Mitigation,
		DiscoveredDate:         doc.CreatedAt,
		Organization:           doc.Organization,
		Status:                 status,
	}, nil
}

func toBackend(f model.Fields) Document {
	return Document{
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

func toBackendPatch(p model.Patch) (DocumentPatch, error) {
	out := DocumentPatch{
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
			return DocumentPatch{}, err
		}
		out.EntryStatus = &entry
	}
	return out, nil
}
