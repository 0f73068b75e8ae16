// Package model provides data models for the quantum vulnerability registry.
package model

import (
	"fmt"
	"time"
)

// QuantumRiskLevel classifies how exposed a system is to quantum attacks.
type QuantumRiskLevel string

// Quantum risk levels
const (
	RiskQuantumSafe   QuantumRiskLevel = "quantum-safe"
	RiskAtRisk        QuantumRiskLevel = "at-risk"
	RiskQuantumBroken QuantumRiskLevel = "quantum-broken"
)

// Valid reports whether r is a known risk level.
func (r QuantumRiskLevel) Valid() bool {
	switch r {
	case RiskQuantumSafe, RiskAtRisk, RiskQuantumBroken:
		return true
	}
	return false
}

// VulnerabilityLevel is the severity bucket of a vulnerable system.
type VulnerabilityLevel string

// Severity buckets
const (
	SeverityCritical VulnerabilityLevel = "critical"
	SeverityHigh     VulnerabilityLevel = "high"
	SeverityMedium   VulnerabilityLevel = "medium"
	SeverityLow      VulnerabilityLevel = "low"
)

// Valid reports whether v is a known severity.
func (v VulnerabilityLevel) Valid() bool {
	switch v {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Score bounds
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// VulnerableSystem is the canonical record served to API clients.
type VulnerableSystem struct {
	ID                     string             `json:"id"`
	Name                   string             `json:"name"`
	Description            string             `json:"description"`
	SystemCategory         *string            `json:"system_category,omitempty"`
	UseCase                *string            `json:"use_case,omitempty"`
	QuantumRiskLevel       QuantumRiskLevel   `json:"quantum_risk_level"`
	VulnerabilityLevel     VulnerabilityLevel `json:"vulnerability_level"`
	Score                  float64            `json:"score"`
	WeaknessReason         string             `json:"weakness_reason"`
	CurrentCryptography    []string           `json:"current_cryptography"`
	AffectedProtocols      []string           `json:"affected_protocols"`
	QuantumXRecommendation *string            `json:"quantumx_recommendation,omitempty"`
	Mitigation             *string            `json:"mitigation,omitempty"`
	DiscoveredDate         string             `json:"discovered_date"`
	Organization           string             `json:"organization"`
	Status                 Status             `json:"status"`
}

// Fields returns the caller-writable part of the record.
func (v VulnerableSystem) Fields() Fields {
	return Fields{
		Name:                   v.Name,
		Description:            v.Description,
		SystemCategory:         v.SystemCategory,
		UseCase:                v.UseCase,
		QuantumRiskLevel:       v.QuantumRiskLevel,
		VulnerabilityLevel:     v.VulnerabilityLevel,
		Score:                  v.Score,
		WeaknessReason:         v.WeaknessReason,
		CurrentCryptography:    v.CurrentCryptography,
		AffectedProtocols:      v.AffectedProtocols,
		QuantumXRecommendation: v.QuantumXRecommendation,
		Mitigation:             v.Mitigation,
		Organization:           v.Organization,
	}
}

// DiscoveredAt parses DiscoveredDate. The zero time is returned when it cannot be parsed.
func (v VulnerableSystem) DiscoveredAt() time.Time {
	t, err := time.Parse(time.RFC3339Nano, v.DiscoveredDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Fields holds every field a caller may write. Identity, status and discovery date are
// owned by the repository and the backend.
type Fields struct {
	Name                   string
	Description            string
	SystemCategory         *string
	UseCase                *string
	QuantumRiskLevel       QuantumRiskLevel
	VulnerabilityLevel     VulnerabilityLevel
	Score                  float64
	WeaknessReason         string
	CurrentCryptography    []string
	AffectedProtocols      []string
	QuantumXRecommendation *string
	Mitigation             *string
	Organization           string
}

// Patch is a partial update. Nil fields are left untouched on the backend.
type Patch struct {
	Name                   *string
	Description            *string
	SystemCategory         *string
	UseCase                *string
	QuantumRiskLevel       *QuantumRiskLevel
	VulnerabilityLevel     *VulnerabilityLevel
	Score                  *float64
	WeaknessReason         *string
	CurrentCryptography    []string
	AffectedProtocols      []string
	QuantumXRecommendation *string
	Mitigation             *string
	Organization           *string
	Status                 *Status
}

// IsEmpty reports whether the patch would write nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.SystemCategory == nil && p.UseCase == nil &&
		p.QuantumRiskLevel == nil && p.VulnerabilityLevel == nil && p.Score == nil &&
		p.WeaknessReason == nil && p.CurrentCryptography == nil && p.AffectedProtocols == nil &&
		p.QuantumXRecommendation == nil && p.Mitigation == nil && p.Organization == nil &&
		p.Status == nil
}

// Apply returns a copy of v with the patch written over it.
func (p Patch) Apply(v VulnerableSystem) VulnerableSystem {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.SystemCategory != nil {
		v.SystemCategory = StringPtr(*p.SystemCategory)
	}
	if p.UseCase != nil {
		v.UseCase = StringPtr(*p.UseCase)
	}
	if p.QuantumRiskLevel != nil {
		v.QuantumRiskLevel = *p.QuantumRiskLevel
	}
	if p.VulnerabilityLevel != nil {
		v.VulnerabilityLevel = *p.VulnerabilityLevel
	}
	if p.Score != nil {
		v.Score = *p.Score
	}
	if p.WeaknessReason != nil {
		v.WeaknessReason = *p.WeaknessReason
	}
	if p.CurrentCryptography != nil {
		v.CurrentCryptography = append([]string{}, p.CurrentCryptography...)
	}
	if p.AffectedProtocols != nil {
		v.AffectedProtocols = append([]string{}, p.AffectedProtocols...)
	}
	if p.QuantumXRecommendation != nil {
		v.QuantumXRecommendation = StringPtr(*p.QuantumXRecommendation)
	}
	if p.Mitigation != nil {
		v.Mitigation = StringPtr(*p.Mitigation)
	}
	if p.Organization != nil {
		v.Organization = *p.Organization
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
	return v
}

// ValidateScore checks the nominal 0-10 range.
func ValidateScore(score float64) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("score must be between %.1f and %.1f", MinScore, MaxScore)
	}
	return nil
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}
