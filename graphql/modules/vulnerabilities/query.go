package vulnerabilities

import (
	"github.com/graphql-go/graphql"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/store"
)

// GetQueryFields returns the registry queries to be mounted in the root schema.
func GetQueryFields(repo *store.Repository) graphql.Fields {
	return graphql.Fields{
		"vulnerableSystems": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(VulnerableSystemType))),
			Description: "Published vulnerable systems, highest score first",
			Args: graphql.FieldConfigArgument{
				"riskLevel": &graphql.ArgumentConfig{Type: RiskLevelEnum},
				"severity":  &graphql.ArgumentConfig{Type: SeverityEnum},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				var filter Filter
				if v, ok := p.Args["riskLevel"].(string); ok {
					filter.RiskLevel = model.QuantumRiskLevel(v)
				}
				if v, ok := p.Args["severity"].(string); ok {
					filter.Severity = model.VulnerabilityLevel(v)
				}
				return ResolveVulnerableSystems(p.Context, repo, filter)
			},
		},
		"vulnerableSystem": &graphql.Field{
			Type:        VulnerableSystemType,
			Description: "A single published vulnerable system, null when missing or unpublished",
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)
				v, err := ResolveVulnerableSystem(p.Context, repo, id)
				if err != nil || v == nil {
					return nil, err
				}
				return v, nil
			},
		},
	}
}
