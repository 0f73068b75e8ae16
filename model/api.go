// Package model - API types for request bodies and response envelopes
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/quantumx/qvr-backend/util"
)

// APIResponse is the envelope returned by every REST endpoint
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ValidationError reports a rejected request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missing(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "Missing required field: " + field}
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ListInput accepts a JSON array of strings or a single comma-joined string.
type ListInput struct {
	Values  []string
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler
func (l *ListInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		l.Values = make([]string, 0, len(arr))
		for _, s := range arr {
			if s = strings.TrimSpace(s); s != "" {
				l.Values = append(l.Values, s)
			}
		}
		l.Present = true
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("expected an array of strings or a comma separated string")
	}
	l.Values = util.SplitList(str)
	l.Present = true
	return nil
}

// ScoreInput accepts a JSON number or a numeric string. An empty string counts as absent.
type ScoreInput struct {
	Value   float64
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler
func (s *ScoreInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		s.Value, s.Present = f, true
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("score must be a number")
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return fmt.Errorf("score must be a number, got %q", str)
	}
	s.Value, s.Present = f, true
	return nil
}

// SubmissionRequest is the body of public submissions and admin creates
type SubmissionRequest struct {
	Name                   string     `json:"name"`
	Description            string     `json:"description"`
	SystemCategory         string     `json:"system_category"`
	UseCase                string     `json:"use_case"`
	QuantumRiskLevel       string     `json:"quantum_risk_level"`
	VulnerabilityLevel     string     `json:"vulnerability_level"`
	Score                  ScoreInput `json:"score"`
	WeaknessReason         string     `json:"weakness_reason"`
	CurrentCryptography    ListInput  `json:"current_cryptography"`
	AffectedProtocols      ListInput  `json:"affected_protocols"`
	QuantumXRecommendation string     `json:"quantumx_recommendation"`
	Mitigation             string     `json:"mitigation"`
	Organization           string     `json:"organization"`
	Status                 string     `json:"status,omitempty"`
}

// Fields validates the submission and converts it. Required fields are checked in a fixed order
// so clients always see the first missing one.
func (r SubmissionRequest) Fields() (Fields, error) {
	checks := []struct {
		field   string
		present bool
	}{
		{"name", strings.TrimSpace(r.Name) != ""},
		{"description", strings.TrimSpace(r.Description) != ""},
		{"weakness_reason", strings.TrimSpace(r.WeaknessReason) != ""},
		{"current_cryptography", len(r.CurrentCryptography.Values) > 0},
		{"affected_protocols", len(r.AffectedProtocols.Values) > 0},
		{"organization", strings.TrimSpace(r.Organization) != ""},
		{"quantum_risk_level", r.QuantumRiskLevel != ""},
		{"vulnerability_level", r.VulnerabilityLevel != ""},
		{"score", r.Score.Present},
	}
	for _, c := range checks {
		if !c.present {
			return Fields{}, missing(c.field)
		}
	}

	risk := QuantumRiskLevel(r.QuantumRiskLevel)
	if !risk.Valid() {
		return Fields{}, invalid("quantum_risk_level", "Invalid quantum_risk_level: %q", r.QuantumRiskLevel)
	}
	severity := VulnerabilityLevel(r.VulnerabilityLevel)
	if !severity.Valid() {
		return Fields{}, invalid("vulnerability_level", "Invalid vulnerability_level: %q", r.VulnerabilityLevel)
	}
	if err := ValidateScore(r.Score.Value); err != nil {
		return Fields{}, invalid("score", "Invalid score: %v", err)
	}

	return Fields{
		Name:                   r.Name,
		Description:            r.Description,
		SystemCategory:         optional(r.SystemCategory),
		UseCase:                optional(r.UseCase),
		QuantumRiskLevel:       risk,
		VulnerabilityLevel:     severity,
		Score:                  r.Score.Value,
		WeaknessReason:         r.WeaknessReason,
		CurrentCryptography:    r.CurrentCryptography.Values,
		AffectedProtocols:      r.AffectedProtocols.Values,
		QuantumXRecommendation: optional(r.QuantumXRecommendation),
		Mitigation:             optional(r.Mitigation),
		Organization:           r.Organization,
	}, nil
}

// InitialStatus returns the requested status, defaulting to pending.
func (r SubmissionRequest) InitialStatus() (Status, error) {
	if strings.TrimSpace(r.Status) == "" {
		return StatusPending, nil
	}
	s, err := ParseStatus(r.Status)
	if err != nil {
		return "", invalid("status", "Invalid status: %q", r.Status)
	}
	return s, nil
}

// optional maps blank form values to an absent field.
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return StringPtr(s)
}

// UpdateRequest is the body of an admin update. Only fields present in the JSON are written.
type UpdateRequest struct {
	Name                   *string    `json:"name"`
	Description            *string    `json:"description"`
	SystemCategory         *string    `json:"system_category"`
	UseCase                *string    `json:"use_case"`
	QuantumRiskLevel       *string    `json:"quantum_risk_level"`
	VulnerabilityLevel     *string    `json:"vulnerability_level"`
	Score                  ScoreInput `json:"score"`
	WeaknessReason         *string    `json:"weakness_reason"`
	CurrentCryptography    ListInput  `json:"current_cryptography"`
	AffectedProtocols      ListInput  `json:"affected_protocols"`
	QuantumXRecommendation *string    `json:"quantumx_recommendation"`
	Mitigation             *string    `json:"mitigation"`
	Organization           *string    `json:"organization"`
	Status                 *string    `json:"status"`
}

// Patch validates the update and converts it.
func (r UpdateRequest) Patch() (Patch, error) {
	var p Patch

	required := []struct {
		field string
		in    *string
		out   **string
	}{
		{"name", r.Name, &p.Name},
		{"description", r.Description, &p.Description},
		{"weakness_reason", r.WeaknessReason, &p.WeaknessReason},
		{"organization", r.Organization, &p.Organization},
	}
	for _, f := range required {
		if f.in == nil {
			continue
		}
		if strings.TrimSpace(*f.in) == "" {
			return Patch{}, invalid(f.field, "Field %s cannot be empty", f.field)
		}
		*f.out = f.in
	}

	p.SystemCategory = r.SystemCategory
	p.UseCase = r.UseCase
	p.QuantumXRecommendation = r.QuantumXRecommendation
	p.Mitigation = r.Mitigation

	if r.QuantumRiskLevel != nil {
		risk := QuantumRiskLevel(*r.QuantumRiskLevel)
		if !risk.Valid() {
			return Patch{}, invalid("quantum_risk_level", "Invalid quantum_risk_level: %q", *r.QuantumRiskLevel)
		}
		p.QuantumRiskLevel = &risk
	}
	if r.VulnerabilityLevel != nil {
		severity := VulnerabilityLevel(*r.VulnerabilityLevel)
		if !severity.Valid() {
			return Patch{}, invalid("vulnerability_level", "Invalid vulnerability_level: %q", *r.VulnerabilityLevel)
		}
		p.VulnerabilityLevel = &severity
	}
	if r.Score.Present {
		if err := ValidateScore(r.Score.Value); err != nil {
			return Patch{}, invalid("score", "Invalid score: %v", err)
		}
		score := r.Score.Value
		p.Score = &score
	}
	if r.CurrentCryptography.Present {
		if len(r.CurrentCryptography.Values) == 0 {
			return Patch{}, invalid("current_cryptography", "Field current_cryptography cannot be empty")
		}
		p.CurrentCryptography = r.CurrentCryptography.Values
	}
	if r.AffectedProtocols.Present {
		if len(r.AffectedProtocols.Values) == 0 {
			return Patch{}, invalid("affected_protocols", "Field affected_protocols cannot be empty")
		}
		p.AffectedProtocols = r.AffectedProtocols.Values
	}
	if r.Status != nil {
		s, err := ParseStatus(*r.Status)
		if err != nil {
			return Patch{}, invalid("status", "Invalid status: %q", *r.Status)
		}
		p.Status = &s
	}

	if p.IsEmpty() {
		return Patch{}, &ValidationError{Field: "", Message: "No fields to update"}
	}
	return p, nil
}

// StatusRequest is the body of a status change
type StatusRequest struct {
	Status string `json:"status"`
}
