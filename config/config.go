// Package config loads the service configuration from an optional YAML file, QVR_ prefixed
// environment variables and defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Backend kinds
const (
	BackendAppwrite = "appwrite"
	BackendDirectus = "directus"
	BackendArango   = "arango"
)

// Config is injected into every component; nothing reads the environment after Load.
type Config struct {
	Server   ServerConfig
	LogLevel string
	Backend  string
	Appwrite AppwriteConfig
	Directus DirectusConfig
	Arango   ArangoConfig
	Auth     AuthConfig
	Kafka    KafkaConfig
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port        string
	CORSOrigins string
	BodyLimitMB int
}

// AppwriteConfig identifies the Appwrite collection holding the registry
type AppwriteConfig struct {
	Endpoint     string
	ProjectID    string
	DatabaseID   string
	CollectionID string
	APIKey       string
	// IntegerScore rounds scores on write for collections whose Risk-Score attribute is an integer.
	IntegerScore bool
}

// Configured reports whether every identifier needed to reach the collection is set.
func (c AppwriteConfig) Configured() bool {
	return c.Endpoint != "" && c.ProjectID != "" && c.DatabaseID != "" && c.CollectionID != ""
}

// DirectusConfig identifies the Directus collection holding the registry
type DirectusConfig struct {
	URL        string
	Token      string
	Collection string
}

// Configured reports whether the Directus instance is known.
func (c DirectusConfig) Configured() bool {
	return c.URL != "" && c.Collection != ""
}

// ArangoConfig identifies the ArangoDB database and collection holding the registry
type ArangoConfig struct {
	URL        string
	User       string
	Password   string
	Database   string
	Collection string
}

// Configured reports whether the ArangoDB endpoint is known.
func (c ArangoConfig) Configured() bool {
	return c.URL != "" && c.Database != "" && c.Collection != ""
}

// AuthConfig controls admin sessions
type AuthConfig struct {
	JWTSecret      string
	SecureCookies  bool
	UsersFile      string
	BootstrapUser  string
	BootstrapPass  string
	BootstrapEmail string
}

// KafkaConfig enables registry change events when Brokers is non-empty
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	Username string
	Password string
	GroupID  string
}

// Enabled reports whether events should be published.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// BackendConfigured reports whether the selected backend has all its identifiers.
func (c *Config) BackendConfigured() bool {
	switch c.Backend {
	case BackendAppwrite:
		return c.Appwrite.Configured()
	case BackendDirectus:
		return c.Directus.Configured()
	case BackendArango:
		return c.Arango.Configured()
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.cors_origins", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("server.body_limit_mb", 1)
	v.SetDefault("log_level", "info")
	v.SetDefault("backend", BackendAppwrite)

	v.SetDefault("appwrite.endpoint", "")
	v.SetDefault("appwrite.project_id", "")
	v.SetDefault("appwrite.database_id", "")
	v.SetDefault("appwrite.collection_id", "")
	v.SetDefault("appwrite.api_key", "")
	v.SetDefault("appwrite.integer_score", true)

	v.SetDefault("directus.url", "")
	v.SetDefault("directus.token", "")
	v.SetDefault("directus.collection", "vulnerable_systems")

	v.SetDefault("arango.url", "")
	v.SetDefault("arango.user", "root")
	v.SetDefault("arango.password", "")
	v.SetDefault("arango.database", "qvr")
	v.SetDefault("arango.collection", "vulnerable_systems")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.secure_cookies", false)
	v.SetDefault("auth.users_file", "")
	v.SetDefault("auth.admin_username", "")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.admin_email", "")

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "qvr-registry-events")
	v.SetDefault("kafka.username", "")
	v.SetDefault("kafka.password", "")
	v.SetDefault("kafka.group_id", "qvr-event-tail")
}

// envAliases are the short operator-facing names accepted next to the derived QVR_AUTH_* keys.
var envAliases = map[string]string{
	"auth.jwt_secret":     "QVR_JWT_SECRET",
	"auth.users_file":     "QVR_ADMIN_USERS_FILE",
	"auth.admin_username": "QVR_ADMIN_USERNAME",
	"auth.admin_password": "QVR_ADMIN_PASSWORD",
	"auth.admin_email":    "QVR_ADMIN_EMAIL",
}

func bindEnvAliases(v *viper.Viper) error {
	for key, alias := range envAliases {
		// The derived name is listed first so it wins when both are set.
		derived := "QVR_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, derived, alias); err != nil {
			return fmt.Errorf("failed to bind %s: %w", alias, err)
		}
	}
	return nil
}

// Load reads configuration. path may be empty, in which case only the environment and
// defaults apply. Environment keys are upper-cased with dots replaced, e.g.
// QVR_APPWRITE_PROJECT_ID for appwrite.project_id.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("QVR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnvAliases(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetString("server.port"),
			CORSOrigins: v.GetString("server.cors_origins"),
			BodyLimitMB: v.GetInt("server.body_limit_mb"),
		},
		LogLevel: v.GetString("log_level"),
		Backend:  strings.ToLower(strings.TrimSpace(v.GetString("backend"))),
		Appwrite: AppwriteConfig{
			Endpoint:     strings.TrimRight(v.GetString("appwrite.endpoint"), "/"),
			ProjectID:    v.GetString("appwrite.project_id"),
			DatabaseID:   v.GetString("appwrite.database_id"),
			CollectionID: v.GetString("appwrite.collection_id"),
			APIKey:       v.GetString("appwrite.api_key"),
			IntegerScore: v.GetBool("appwrite.integer_score"),
		},
		Directus: DirectusConfig{
			URL:        strings.TrimRight(v.GetString("directus.url"), "/"),
			Token:      v.GetString("directus.token"),
			Collection: v.GetString("directus.collection"),
		},
		Arango: ArangoConfig{
			URL:        v.GetString("arango.url"),
			User:       v.GetString("arango.user"),
			Password:   v.GetString("arango.password"),
			Database:   v.GetString("arango.database"),
			Collection: v.GetString("arango.collection"),
		},
		Auth: AuthConfig{
			JWTSecret:      v.GetString("auth.jwt_secret"),
			SecureCookies:  v.GetBool("auth.secure_cookies"),
			UsersFile:      v.GetString("auth.users_file"),
			BootstrapUser:  v.GetString("auth.admin_username"),
			BootstrapPass:  v.GetString("auth.admin_password"),
			BootstrapEmail: v.GetString("auth.admin_email"),
		},
		Kafka: KafkaConfig{
			Brokers:  splitBrokers(v.GetString("kafka.brokers")),
			Topic:    v.GetString("kafka.topic"),
			Username: v.GetString("kafka.username"),
			Password: v.GetString("kafka.password"),
			GroupID:  v.GetString("kafka.group_id"),
		},
	}

	switch cfg.Backend {
	case BackendAppwrite, BackendDirectus, BackendArango:
	default:
		return nil, fmt.Errorf("unknown backend %q: expected appwrite, directus or arango", cfg.Backend)
	}

	if cfg.Server.BodyLimitMB <= 0 {
		cfg.Server.BodyLimitMB = 1
	}

	return cfg, nil
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
