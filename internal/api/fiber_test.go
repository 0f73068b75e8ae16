package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/quantumx/qvr-backend/config"
	"github.com/quantumx/qvr-backend/internal/api"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/restapi/modules/auth"
	"github.com/quantumx/qvr-backend/store"
	"github.com/quantumx/qvr-backend/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminPassword = "correct-horse-battery"

type fixture struct {
	app     *fiber.App
	backend *storetest.Backend
	tokens  *auth.Tokens
}

func seeded(id string, score float64, status model.Status) model.VulnerableSystem {
	return model.VulnerableSystem{
		ID:                  id,
		Name:                "System " + id,
		Description:         "desc",
		QuantumRiskLevel:    model.RiskQuantumBroken,
		VulnerabilityLevel:  model.SeverityCritical,
		Score:               score,
		WeaknessReason:      "reason",
		CurrentCryptography: []string{"RSA-2048"},
		AffectedProtocols:   []string{"TLS 1.2"},
		DiscoveredDate:      "2024-05-01T00:00:00Z",
		Organization:        "Org",
		Status:              status,
	}
}

func newFixture(t *testing.T, backend store.Backend) *fixture {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	tokens, err := auth.NewTokens("test-secret", nil)
	require.NoError(t, err)

	users := auth.NewDirectory(&auth.UsersFile{Users: []auth.FileUser{
		{Username: "admin-user", Role: model.RoleAdmin, PasswordHash: "unused"},
		{Username: "viewer-user", Role: model.RoleViewer, PasswordHash: "unused"},
		{Username: "retired-user", Role: model.RoleAdmin, PasswordHash: "unused", Disabled: true},
	}})
	require.NoError(t, users.AddBootstrapAdmin("admin", adminPassword, "admin@example.com"))

	repo := store.New(backend, nil, store.WithIDGenerator(func() string { return "new-1" }))
	svc := &auth.Service{Tokens: tokens, Users: users}

	app, err := api.NewFiberApp(cfg, repo, svc, zap.NewNop())
	require.NoError(t, err)

	f := &fixture{app: app, tokens: tokens}
	if mb, ok := backend.(*storetest.Backend); ok {
		f.backend = mb
	}
	return f
}

func (f *fixture) token(t *testing.T, role string) string {
	t.Helper()
	token, err := f.tokens.Generate(role+"-user", role)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}, token string) (int, map[string]interface{}, *http.Response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out, resp
}

func validSubmission() map[string]interface{} {
	return map[string]interface{}{
		"name":                 "Legacy VPN",
		"description":          "Tunnels negotiated with classical DH",
		"weakness_reason":      "Discrete log",
		"current_cryptography": "DH-2048, RSA-2048",
		"affected_protocols":   []string{"IKEv2", "IPsec"},
		"organization":         "Example Corp",
		"quantum_risk_level":   "at-risk",
		"vulnerability_level":  "high",
		"score":                "8.5",
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, storetest.NewBackend())

	status, body, _ := f.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["backend"])
}

func TestPublicListReturnsPublishedOnly(t *testing.T) {
	f := newFixture(t, storetest.NewBackend(
		seeded("a", 7.0, model.StatusVerified),
		seeded("b", 9.0, model.StatusVerified),
		seeded("c", 9.9, model.StatusPending),
	))

	status, body, _ := f.do(t, http.MethodGet, "/api/v1/vulnerabilities", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	data := body["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Equal(t, "b", data[0].(map[string]interface{})["id"])
	assert.Equal(t, "a", data[1].(map[string]interface{})["id"])
}

func TestPublicListWithoutBackendServesDemoData(t *testing.T) {
	f := newFixture(t, nil)

	status, body, _ := f.do(t, http.MethodGet, "/api/v1/vulnerabilities", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 6)
}

func TestPublicCheck(t *testing.T) {
	f := newFixture(t, storetest.NewBackend(
		seeded("pub", 7.0, model.StatusVerified),
		seeded("pend", 9.9, model.StatusUnderReview),
	))

	status, body, _ := f.do(t, http.MethodGet, "/api/v1/vulnerabilities/pub/check", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["isPublished"])

	status, body, _ = f.do(t, http.MethodGet, "/api/v1/vulnerabilities/pend/check", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Document is not published", body["error"])
	assert.Equal(t, "pend", body["id"])
	assert.Equal(t, "under-review", body["status"])
	assert.NotEmpty(t, body["message"])

	status, body, _ = f.do(t, http.MethodGet, "/api/v1/vulnerabilities/nope/check", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Document not found", body["error"])
	assert.Equal(t, "nope", body["id"])
}

func TestSubmit(t *testing.T) {
	f := newFixture(t, storetest.NewBackend())

	status, body, _ := f.do(t, http.MethodPost, "/api/v1/submit", validSubmission(), "")
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, true, body["success"])
	require.Equal(t, 1, f.backend.Len())

	res := store.New(f.backend, nil).ListAll(context.Background())
	require.True(t, res.Success)
	got := res.Data[0]
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, []string{"DH-2048", "RSA-2048"}, got.CurrentCryptography)
	assert.Equal(t, 8.5, got.Score)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t, storetest.NewBackend())

	missing := validSubmission()
	delete(missing, "organization")
	status, body, _ := f.do(t, http.MethodPost, "/api/v1/submit", missing, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required field: organization", body["error"])

	zero := validSubmission()
	zero["score"] = 0
	status, _, _ = f.do(t, http.MethodPost, "/api/v1/submit", zero, "")
	assert.Equal(t, http.StatusCreated, status, "score 0 is allowed")

	badEnum := validSubmission()
	badEnum["quantum_risk_level"] = "doomed"
	status, _, _ = f.do(t, http.MethodPost, "/api/v1/submit", badEnum, "")
	assert.Equal(t, http.StatusBadRequest, status)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submit", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitWithoutBackendFails(t *testing.T) {
	f := newFixture(t, nil)

	status, body, _ := f.do(t, http.MethodPost, "/api/v1/submit", validSubmission(), "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
}

func TestAdminRoutesRequireAdminSession(t *testing.T) {
	f := newFixture(t, storetest.NewBackend(seeded("a", 7.0, model.StatusPending)))

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/admin/vulnerabilities"},
		{http.MethodPost, "/api/v1/admin/vulnerabilities"},
		{http.MethodGet, "/api/v1/admin/vulnerabilities/a/check"},
		{http.MethodPut, "/api/v1/admin/vulnerabilities/a"},
		{http.MethodDelete, "/api/v1/admin/vulnerabilities/a"},
		{http.MethodPatch, "/api/v1/admin/vulnerabilities/a/status"},
		{http.MethodGet, "/api/v1/admin/users"},
	}

	viewer := f.token(t, model.RoleViewer)
	for _, r := range routes {
		status, _, _ := f.do(t, r.method, r.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, status, "%s %s without session", r.method, r.path)

		status, _, _ = f.do(t, r.method, r.path, nil, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, status, "%s %s with garbage token", r.method, r.path)

		status, _, _ = f.do(t, r.method, r.path, nil, viewer)
		assert.Equal(t, http.StatusForbidden, status, "%s %s as viewer", r.method, r.path)
	}
	assert.Equal(t, 1, f.backend.Len())
}

func TestAdminRoutesRejectInactiveUsers(t *testing.T) {
	f := newFixture(t, storetest.NewBackend(seeded("a", 7.0, model.StatusPending)))

	for _, username := range []string{"retired-user", "unknown-user"} {
		token, err := f.tokens.Generate(username, model.RoleAdmin)
		require.NoError(t, err)

		status, body, _ := f.do(t, http.MethodGet, "/api/v1/admin/vulnerabilities", nil, token)
		assert.Equal(t, http.StatusUnauthorized, status, username)
		assert.Equal(t, "Invalid or expired session", body["error"])

		status, _, _ = f.do(t, http.MethodDelete, "/api/v1/admin/vulnerabilities/a", nil, token)
		assert.Equal(t, http.StatusUnauthorized, status, username)
	}
	assert.Equal(t, 1, f.backend.Len())

	// GraphQL stays public for sessions that no longer resolve.
	token, err := f.tokens.Generate("retired-user", model.RoleAdmin)
	require.NoError(t, err)
	status, _, _ := f.do(t, http.MethodPost, "/api/v1/graphql",
		map[string]string{"query": "{ vulnerableSystems { id } }"}, token)
	assert.Equal(t, http.StatusOK, status)
}

func TestLoginCookieSession(t *testing.T) {
	f := newFixture(t, storetest.NewBackend())

	status, _, _ := f.do(t, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "admin", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body, resp := f.do(t, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "admin", "password": adminPassword}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin", body["username"])
	assert.Equal(t, "admin", body["role"])
	assert.NotEmpty(t, body["token"])

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: session.Value})
	meResp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer meResp.Body.Close()
	assert.Equal(t, http.StatusOK, meResp.StatusCode)

	var me map[string]interface{}
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	assert.Equal(t, "admin@example.com", me["email"])
	assert.Equal(t, true, me["is_admin"])

	status, _, _ = f.do(t, http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAdminLifecycle(t *testing.T) {
	f := newFixture(t, storetest.NewBackend())
	admin := f.token(t, model.RoleAdmin)

	body := validSubmission()
	body["status"] = "under-review"
	status, created, _ := f.do(t, http.MethodPost, "/api/v1/admin/vulnerabilities", body, admin)
	require.Equal(t, http.StatusCreated, status, created)
	assert.Equal(t, "new-1", created["id"])
	assert.Equal(t, "new-1", created["data"].(map[string]interface{})["id"])

	status, got, _ := f.do(t, http.MethodGet, "/api/v1/admin/vulnerabilities/new-1/check", nil, admin)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "under-review", got["data"].(map[string]interface{})["status"])

	status, _, _ = f.do(t, http.MethodPut, "/api/v1/admin/vulnerabilities/new-1",
		map[string]interface{}{"score": 7.5}, admin)
	require.Equal(t, http.StatusOK, status)

	status, listed, _ := f.do(t, http.MethodGet, "/api/v1/admin/vulnerabilities", nil, admin)
	require.Equal(t, http.StatusOK, status)
	rec := listed["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 7.5, rec["score"])
	assert.Equal(t, "Legacy VPN", rec["name"])

	status, public, _ := f.do(t, http.MethodGet, "/api/v1/vulnerabilities", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, public["data"])

	status, _, _ = f.do(t, http.MethodPatch, "/api/v1/admin/vulnerabilities/new-1/status",
		map[string]string{"status": "Published"}, admin)
	require.Equal(t, http.StatusOK, status)

	_, public, _ = f.do(t, http.MethodGet, "/api/v1/vulnerabilities", nil, "")
	assert.Len(t, public["data"], 1)

	status, _, _ = f.do(t, http.MethodDelete, "/api/v1/admin/vulnerabilities/new-1", nil, admin)
	require.Equal(t, http.StatusOK, status)

	status, _, _ = f.do(t, http.MethodDelete, "/api/v1/admin/vulnerabilities/new-1", nil, admin)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminUpdateValidation(t *testing.T) {
	f := newFixture(t, storetest.NewBackend(seeded("a", 7.0, model.StatusPending)))
	admin := f.token(t, model.RoleAdmin)

	status, body, _ := f.do(t, http.MethodPut, "/api/v1/admin/vulnerabilities/a", map[string]interface{}{}, admin)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No fields to update", body["error"])

	status, _, _ = f.do(t, http.MethodPut, "/api/v1/admin/vulnerabilities/missing",
		map[string]interface{}{"score": 1}, admin)
	assert.Equal(t, http.StatusNotFound, status)

	status, body, _ = f.do(t, http.MethodPatch, "/api/v1/admin/vulnerabilities/a/status",
		map[string]string{"status": ""}, admin)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Status is required", body["error"])

	status, body, _ = f.do(t, http.MethodPatch, "/api/v1/admin/vulnerabilities/a/status",
		map[string]string{"status": "archived"}, admin)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "Invalid status: archived")
}

func TestBackendFailureOnWriteIsBadRequest(t *testing.T) {
	backend := storetest.NewBackend(seeded("a", 7.0, model.StatusPending))
	f := newFixture(t, backend)
	admin := f.token(t, model.RoleAdmin)

	backend.Err = assert.AnError
	status, body, _ := f.do(t, http.MethodDelete, "/api/v1/admin/vulnerabilities/a", nil, admin)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestGraphQLEndpoint(t *testing.T) {
	f := newFixture(t, storetest.NewBackend(
		seeded("a", 7.0, model.StatusVerified),
		seeded("b", 9.0, model.StatusPending),
	))

	status, body, _ := f.do(t, http.MethodPost, "/api/v1/graphql",
		map[string]string{"query": "{ vulnerableSystems { id } }"}, "")
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Len(t, data["vulnerableSystems"], 1)
}
