package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"QVR_BACKEND", "QVR_APPWRITE_ENDPOINT", "QVR_KAFKA_BROKERS", "QVR_SERVER_PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, BackendAppwrite, cfg.Backend)
	assert.True(t, cfg.Appwrite.IntegerScore)
	assert.False(t, cfg.BackendConfigured())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "vulnerable_systems", cfg.Directus.Collection)
	assert.Equal(t, 1, cfg.Server.BodyLimitMB)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("QVR_BACKEND", "Directus")
	t.Setenv("QVR_DIRECTUS_URL", "http://directus:8055/")
	t.Setenv("QVR_DIRECTUS_TOKEN", "static-token")
	t.Setenv("QVR_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("QVR_AUTH_SECURE_COOKIES", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendDirectus, cfg.Backend)
	assert.Equal(t, "http://directus:8055", cfg.Directus.URL)
	assert.Equal(t, "static-token", cfg.Directus.Token)
	assert.True(t, cfg.BackendConfigured())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Auth.SecureCookies)
}

func TestLoadDocumentedAuthNames(t *testing.T) {
	t.Setenv("QVR_JWT_SECRET", "documented-secret")
	t.Setenv("QVR_ADMIN_USERNAME", "ops")
	t.Setenv("QVR_ADMIN_PASSWORD", "ops-password")
	t.Setenv("QVR_ADMIN_EMAIL", "ops@example.com")
	t.Setenv("QVR_ADMIN_USERS_FILE", "/etc/qvr/users.yaml")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "documented-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "ops", cfg.Auth.BootstrapUser)
	assert.Equal(t, "ops-password", cfg.Auth.BootstrapPass)
	assert.Equal(t, "ops@example.com", cfg.Auth.BootstrapEmail)
	assert.Equal(t, "/etc/qvr/users.yaml", cfg.Auth.UsersFile)
}

func TestLoadDerivedAuthNamesWin(t *testing.T) {
	t.Setenv("QVR_JWT_SECRET", "short-name")
	t.Setenv("QVR_AUTH_JWT_SECRET", "derived-name")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "derived-name", cfg.Auth.JWTSecret)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("QVR_APPWRITE_PROJECT_ID", "from-env")

	path := filepath.Join(t.TempDir(), "qvr.yaml")
	content := `
backend: appwrite
appwrite:
  endpoint: https://cloud.appwrite.io/v1
  project_id: from-file
  database_id: registry
  collection_id: systems
  integer_score: false
server:
  port: "8080"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Appwrite.ProjectID, "environment overrides the file")
	assert.Equal(t, "registry", cfg.Appwrite.DatabaseID)
	assert.False(t, cfg.Appwrite.IntegerScore)
	assert.True(t, cfg.BackendConfigured())
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("QVR_BACKEND", "mongodb")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
