package graphql_test

import (
	"context"
	"encoding/json"
	"testing"

	gql "github.com/graphql-go/graphql"
	"github.com/quantumx/qvr-backend/graphql"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/store"
	"github.com/quantumx/qvr-backend/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func system(id string, score float64, risk model.QuantumRiskLevel, status model.Status) model.VulnerableSystem {
	return model.VulnerableSystem{
		ID:                  id,
		Name:                "System " + id,
		Description:         "desc",
		QuantumRiskLevel:    risk,
		VulnerabilityLevel:  model.SeverityHigh,
		Score:               score,
		WeaknessReason:      "reason",
		CurrentCryptography: []string{"RSA-2048"},
		AffectedProtocols:   []string{"TLS 1.2", "SSH"},
		DiscoveredDate:      "2024-01-01T00:00:00Z",
		Organization:        "Org",
		Status:              status,
	}
}

func run(t *testing.T, repo *store.Repository, query string, vars map[string]interface{}) map[string]interface{} {
	t.Helper()
	schema, err := graphql.CreateSchema(repo)
	require.NoError(t, err)

	result := gql.Do(gql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        context.Background(),
	})
	require.Empty(t, result.Errors)

	raw, err := json.Marshal(result.Data)
	require.NoError(t, err)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &data))
	return data
}

func newRepo() *store.Repository {
	backend := storetest.NewBackend(
		system("a", 9.1, model.RiskQuantumBroken, model.StatusVerified),
		system("b", 7.0, model.RiskAtRisk, model.StatusVerified),
		system("c", 9.9, model.RiskQuantumBroken, model.StatusPending),
	)
	return store.New(backend, nil)
}

func TestVulnerableSystemsReturnsPublishedOnly(t *testing.T) {
	data := run(t, newRepo(), `{ vulnerableSystems { id score status affected_protocols severity_rating } }`, nil)

	list := data["vulnerableSystems"].([]interface{})
	require.Len(t, list, 2)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "a", first["id"])
	assert.Equal(t, 9.1, first["score"])
	assert.Equal(t, "verified", first["status"])
	assert.Equal(t, []interface{}{"TLS 1.2", "SSH"}, first["affected_protocols"])
	assert.Equal(t, "critical", first["severity_rating"])
	assert.Equal(t, "high", list[1].(map[string]interface{})["severity_rating"])
}

func TestVulnerableSystemsFilters(t *testing.T) {
	data := run(t, newRepo(), `{ vulnerableSystems(riskLevel: AT_RISK) { id } }`, nil)

	list := data["vulnerableSystems"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].(map[string]interface{})["id"])

	data = run(t, newRepo(), `{ vulnerableSystems(severity: LOW) { id } }`, nil)
	assert.Empty(t, data["vulnerableSystems"])
}

func TestVulnerableSystemHidesUnpublished(t *testing.T) {
	query := `query($id: ID!) { vulnerableSystem(id: $id) { id name system_category } }`

	data := run(t, newRepo(), query, map[string]interface{}{"id": "a"})
	got := data["vulnerableSystem"].(map[string]interface{})
	assert.Equal(t, "System a", got["name"])
	assert.Nil(t, got["system_category"])

	data = run(t, newRepo(), query, map[string]interface{}{"id": "c"})
	assert.Nil(t, data["vulnerableSystem"])

	data = run(t, newRepo(), query, map[string]interface{}{"id": "missing"})
	assert.Nil(t, data["vulnerableSystem"])
}

func TestDemoModeServesDemoDataset(t *testing.T) {
	data := run(t, store.New(nil, nil), `{ vulnerableSystems { id } }`, nil)
	assert.Len(t, data["vulnerableSystems"], 6)
}
