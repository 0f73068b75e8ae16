package appwrite

import (
	"fmt"

	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/util"
)

// Document is the collection document with the attribute names of the Appwrite schema.
type Document struct {
	ID                     string            `json:"$id,omitempty"`
	CreatedAt              string            `json:"$createdAt,omitempty"`
	AssetName              string            `json:"Asset-Name"`
	SystemCategory         *string           `json:"System-Category,omitempty"`
	UseCase                *string           `json:"Use-Case,omitempty"`
	Organization           string            `json:"Organization"`
	WeaknessReason         string            `json:"Weakness-Reason"`
	Description            string            `json:"Detailed-Technical-Description"`
	CurrentCryptography    string            `json:"Current-Cryptography"`
	AffectedProtocols      string            `json:"Affected-Protocols"`
	QuantumRiskLevel       string            `json:"Quantum-Risk-Level"`
	VulnerabilitySeverity  string            `json:"Vulnerability-Severity"`
	RiskScore              float64           `json:"Risk-Score"`
	QuantumXRecommendation *string           `json:"QuantumX-Recommendation,omitempty"`
	Mitigation             *string           `json:"Recommended-Mitigation,omitempty"`
	EntryStatus            model.EntryStatus `json:"entry-status,omitempty"`
}

// DocumentPatch carries only the attributes being changed.
type DocumentPatch struct {
	AssetName              *string            `json:"Asset-Name,omitempty"`
	SystemCategory         *string            `json:"System-Category,omitempty"`
	UseCase                *string            `json:"Use-Case,omitempty"`
	Organization           *string            `json:"Organization,omitempty"`
	WeaknessReason         *string            `json:"Weakness-Reason,omitempty"`
	Description            *string            `json:"Detailed-Technical-Description,omitempty"`
	CurrentCryptography    *string            `json:"Current-Cryptography,omitempty"`
	AffectedProtocols      *string            `json:"Affected-Protocols,omitempty"`
	QuantumRiskLevel       *string            `json:"Quantum-Risk-Level,omitempty"`
	VulnerabilitySeverity  *string            `json:"Vulnerability-Severity,omitempty"`
	RiskScore              *float64           `json:"Risk-Score,omitempty"`
	QuantumXRecommendation *string            `json:"QuantumX-Recommendation,omitempty"`
	Mitigation             *string            `json:"Recommended-Mitigation,omitempty"`
	EntryStatus            *model.EntryStatus `json:"entry-status,omitempty"`
}

func fromBackend(doc Document) (model.VulnerableSystem, error) {
	status, err := doc.EntryStatus.Status()
	if err != nil {
		return model.VulnerableSystem{}, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	return model.VulnerableSystem{
		ID:                     doc.ID,
		Name:                   doc.AssetName,
		Description:            doc.Description,
		SystemCategory:         doc.SystemCategory,
		UseCase:                doc.UseCase,
		QuantumRiskLevel:       model.QuantumRiskLevel(doc.QuantumRiskLevel),
		VulnerabilityLevel:     model.VulnerabilityLevel(doc.VulnerabilitySeverity),
		Score:                  doc.RiskScore,
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

// toBackend leaves identity, creation time and status to the caller.
func toBackend(f model.Fields) Document {
	return Document{
		AssetName:              f.Name,
		Description:            f.Description,
		SystemCategory:         f.SystemCategory,
		UseCase:                f.UseCase,
		QuantumRiskLevel:       string(f.QuantumRiskLevel),
		VulnerabilitySeverity:  string(f.VulnerabilityLevel),
		RiskScore:              f.Score,
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
		AssetName:              p.Name,
		Description:            p.Description,
		SystemCategory:         p.SystemCategory,
		UseCase:                p.UseCase,
		RiskScore:              p.Score,
		WeaknessReason:         p.WeaknessReason,
		QuantumXRecommendation: p.QuantumXRecommendation,
		Mitigation:             p.Mitigation,
		Organization:           p.Organization,
	}
	if p.QuantumRiskLevel != nil {
		out.QuantumRiskLevel = model.StringPtr(string(*p.QuantumRiskLevel))
	}
	if p.VulnerabilityLevel != nil {
		out.VulnerabilitySeverity = model.StringPtr(string(*p.VulnerabilityLevel))
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
