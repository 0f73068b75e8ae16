package arango

import (
	"context"
	"testing"
	"time"

	"github.com/quantumx/qvr-backend/config"
	"github.com/quantumx/qvr-backend/database"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

const arangoRootPassword = "qvr-test"

// startArango runs a throwaway ArangoDB server and returns its settings.
func startArango(t *testing.T) config.ArangoConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping ArangoDB container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "arangodb:3.12",
			ExposedPorts: []string{"8529/tcp"},
			Env:          map[string]string{"ARANGO_ROOT_PASSWORD": arangoRootPassword},
			WaitingFor:   wait.ForLog("is ready for business").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	url, err := container.PortEndpoint(ctx, "8529/tcp", "http")
	require.NoError(t, err)

	return config.ArangoConfig{
		URL:        url,
		User:       "root",
		Password:   arangoRootPassword,
		Database:   "qvr_test",
		Collection: "vulnerable_systems",
	}
}

func fieldsFor(name string, score float64) model.Fields {
	return model.Fields{
		Name:                name,
		Description:         "Key exchange relies on " + name,
		QuantumRiskLevel:    model.RiskQuantumBroken,
		VulnerabilityLevel:  model.SeverityHigh,
		Score:               score,
		WeaknessReason:      "Shor's algorithm",
		CurrentCryptography: []string{"RSA-2048"},
		AffectedProtocols:   []string{"TLS 1.2", "SSH"},
		Organization:        "Example",
	}
}

func TestBackendAgainstArangoDB(t *testing.T) {
	cfg := startArango(t)
	ctx := context.Background()

	db, err := database.Connect(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	// A second connect reuses the database, collection and indexes.
	db, err = database.Connect(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	b := New(db, cfg, zap.NewNop())
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	require.NoError(t, b.Create(ctx, "older", fieldsFor("older", 7.5), model.StatusVerified))
	require.NoError(t, b.Create(ctx, "pending", fieldsFor("pending", 9.8), model.StatusPending))
	require.NoError(t, b.Create(ctx, "newer", fieldsFor("newer", 7.5), model.StatusVerified))
	require.NoError(t, b.Create(ctx, "top", fieldsFor("top", 8.0), model.StatusUnderReview))

	got, err := b.Get(ctx, "pending")
	require.NoError(t, err)
	assert.Equal(t, fieldsFor("pending", 9.8), got.Fields())
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, "2025-03-01T12:02:00Z", got.DiscoveredDate)

	ids := func(systems []model.VulnerableSystem) []string {
		out := []string{}
		for _, s := range systems {
			out = append(out, s.ID)
		}
		return out
	}

	published, err := b.List(ctx, store.ListFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"newer", "older"}, ids(published))

	all, err := b.List(ctx, store.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"pending", "top", "newer", "older"}, ids(all))

	score := 9.9
	verified := model.StatusVerified
	require.NoError(t, b.Update(ctx, "top", model.Patch{Score: &score, Status: &verified}))
	got, err = b.Get(ctx, "top")
	require.NoError(t, err)
	assert.Equal(t, 9.9, got.Score)
	assert.Equal(t, model.StatusVerified, got.Status)
	assert.Equal(t, "top", got.Name, "fields outside the patch are kept")

	published, err = b.List(ctx, store.ListFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"top", "newer", "older"}, ids(published))

	err = b.Update(ctx, "missing", model.Patch{Score: &score})
	assert.Equal(t, store.KindNotFound, store.KindOf(err))

	err = b.Delete(ctx, "missing")
	assert.Equal(t, store.KindNotFound, store.KindOf(err))

	require.NoError(t, b.Delete(ctx, "older"))
	_, err = b.Get(ctx, "older")
	assert.Equal(t, store.KindNotFound, store.KindOf(err))

	err = b.Create(ctx, "newer", fieldsFor("newer", 1.0), model.StatusPending)
	assert.Equal(t, store.KindBackend, store.KindOf(err), "duplicate keys are rejected by the server")
}
