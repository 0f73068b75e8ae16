package arango

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/quantumx/qvr-backend/config"
	"github.com/quantumx/qvr-backend/database"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRoundTrip(t *testing.T) {
	f := model.Fields{
		Name:                "Code signing service",
		Description:         "Firmware images signed with ECDSA",
		QuantumRiskLevel:    model.RiskQuantumBroken,
		VulnerabilityLevel:  model.SeverityCritical,
		Score:               9.1,
		WeaknessReason:      "ECDSA P-256",
		CurrentCryptography: []string{"ECDSA P-256"},
		AffectedProtocols:   []string{"UEFI Secure Boot", "TUF"},
		Mitigation:          model.StringPtr("Dual-sign with ML-DSA"),
		Organization:        "Example",
	}
	doc := toBackend(f)
	doc.Key = "k1"
	doc.CreatedAt = "2025-04-01T08:00:00Z"
	doc.EntryStatus = model.EntryPublished

	v, err := fromBackend(doc)
	require.NoError(t, err)
	assert.Equal(t, f, v.Fields())
	assert.Equal(t, model.StatusVerified, v.Status)
	assert.Equal(t, "k1", v.ID)
	assert.Equal(t, "2025-04-01T08:00:00Z", v.DiscoveredDate)
}

func TestDocumentJSON(t *testing.T) {
	raw, err := json.Marshal(toBackend(model.Fields{
		Name:                "n",
		CurrentCryptography: []string{"RSA-2048", "AES-128"},
		AffectedProtocols:   []string{},
	}))
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "RSA-2048, AES-128", out["current_cryptography"])
	assert.Equal(t, "", out["affected_protocols"])
	assert.NotContains(t, out, "_key")
	assert.NotContains(t, out, "entry_status")
	assert.NotContains(t, out, "use_case")
}

func TestFromBackendUnknownStatus(t *testing.T) {
	_, err := fromBackend(Document{Key: "k", EntryStatus: "Withdrawn"})
	assert.Error(t, err)
}

func TestToBackendPatch(t *testing.T) {
	status := model.StatusUnderReview
	risk := model.RiskAtRisk
	patch, err := toBackendPatch(model.Patch{Status: &status, QuantumRiskLevel: &risk})
	require.NoError(t, err)

	raw, err := json.Marshal(patch)
	require.NoError(t, err)
	assert.JSONEq(t, `{"entry_status":"In-review","quantum_risk_level":"at-risk"}`, string(raw))

	bad := model.Status("archived")
	_, err = toBackendPatch(model.Patch{Status: &bad})
	assert.Error(t, err)
}

func TestInvalidKeysAreNotFound(t *testing.T) {
	b := New(database.DBConnection{}, config.ArangoConfig{Collection: "vulnerable_systems"}, zap.NewNop())
	ctx := context.Background()

	_, err := b.Get(ctx, "not a key")
	assert.Equal(t, store.KindNotFound, store.KindOf(err))
	assert.Equal(t, store.KindNotFound, store.KindOf(b.Delete(ctx, "a/b")))

	score := 1.0
	assert.Equal(t, store.KindNotFound, store.KindOf(b.Update(ctx, "", model.Patch{Score: &score})))
}

func TestCreateWithoutOpenCollection(t *testing.T) {
	b := New(database.DBConnection{}, config.ArangoConfig{Collection: "vulnerable_systems"}, zap.NewNop())

	err := b.Create(context.Background(), "k", model.Fields{}, model.StatusPending)
	assert.Equal(t, store.KindBackend, store.KindOf(err))
	assert.Equal(t, config.BackendArango, b.Name())
}
