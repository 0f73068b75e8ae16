// Package vulnerabilities defines the GraphQL types and queries for the public registry.
package vulnerabilities

import (
	"github.com/graphql-go/graphql"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/util"
)

// RiskLevelEnum lists the quantum risk levels accepted as a filter.
var RiskLevelEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "QuantumRiskLevel",
	Values: graphql.EnumValueConfigMap{
		"QUANTUM_SAFE":   &graphql.EnumValueConfig{Value: string(model.RiskQuantumSafe)},
		"AT_RISK":        &graphql.EnumValueConfig{Value: string(model.RiskAtRisk)},
		"QUANTUM_BROKEN": &graphql.EnumValueConfig{Value: string(model.RiskQuantumBroken)},
	},
})

// SeverityEnum lists the severity buckets accepted as a filter.
var SeverityEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "VulnerabilityLevel",
	Values: graphql.EnumValueConfigMap{
		"CRITICAL": &graphql.EnumValueConfig{Value: string(model.SeverityCritical)},
		"HIGH":     &graphql.EnumValueConfig{Value: string(model.SeverityHigh)},
		"MEDIUM":   &graphql.EnumValueConfig{Value: string(model.SeverityMedium)},
		"LOW":      &graphql.EnumValueConfig{Value: string(model.SeverityLow)},
	},
})

// VulnerableSystemType mirrors the REST representation. Field names follow the JSON tags of
// model.VulnerableSystem so the default resolver can read them.
var VulnerableSystemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VulnerableSystem",
	Fields: graphql.Fields{
		"id":                      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":                    &graphql.Field{Type: graphql.String},
		"description":             &graphql.Field{Type: graphql.String},
		"system_category":         &graphql.Field{Type: graphql.String},
		"use_case":                &graphql.Field{Type: graphql.String},
		"quantum_risk_level":      &graphql.Field{Type: graphql.String},
		"vulnerability_level":     &graphql.Field{Type: graphql.String},
		"score":                   &graphql.Field{Type: graphql.Float},
		"weakness_reason":         &graphql.Field{Type: graphql.String},
		"current_cryptography":    &graphql.Field{Type: graphql.NewList(graphql.String)},
		"affected_protocols":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"quantumx_recommendation": &graphql.Field{Type: graphql.String},
		"mitigation":              &graphql.Field{Type: graphql.String},
		"discovered_date":         &graphql.Field{Type: graphql.String},
		"organization":            &graphql.Field{Type: graphql.String},
		"status":                  &graphql.Field{Type: graphql.String},
		"severity_rating": &graphql.Field{
			Type:        graphql.String,
			Description: "CVSS qualitative rating derived from score",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch v := p.Source.(type) {
				case model.VulnerableSystem:
					return util.SeverityRating(v.Score), nil
				case *model.VulnerableSystem:
					return util.SeverityRating(v.Score), nil
				}
				return nil, nil
			},
		},
	},
})
