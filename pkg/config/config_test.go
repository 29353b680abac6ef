package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every source at an empty temp directory and clears the
// environment variables this package reads
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PETITION_CONFIG_PATH", dir)
	t.Setenv("PETITION_DOTENV_PATH", filepath.Join(dir, ".env"))
	for _, attr := range attributes {
		t.Setenv(attr.env, "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.SessionLifetime())
	assert.Equal(t, 5*time.Second, cfg.RequestDeadline())
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, 50, cfg.ListLimitDefault)
	assert.Equal(t, 500, cfg.ListLimitMax)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.ConfigFilePath())
	assert.Equal(t, SourceDefault, cfg.Source("port"))
	assert.Equal(t, SourceDefault, cfg.Source("unknown"))
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`
port: 8080
session_ttl: 60
base_url: https://petition.example.com
cookie_secure: true
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"PORT=9090\nDATABASE_URL=postgres://dotenv\nSESSION_SECRET=from-dotenv-0123456789\n",
	), 0o600))
	t.Setenv("SESSION_SECRET", "from-environment-0123456789")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.SessionTTL)
	assert.Equal(t, SourceFile, cfg.Source("session_ttl"))
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "https://petition.example.com", cfg.BaseURL)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, SourceDotenv, cfg.Source("port"))
	assert.Equal(t, "postgres://dotenv", cfg.DatabaseURL)

	assert.Equal(t, "from-environment-0123456789", cfg.SessionSecret)
	assert.Equal(t, SourceEnvironment, cfg.Source("session_secret"))

	// .env does not leak into the process environment
	_, set := os.LookupEnv("DATABASE_URL")
	assert.True(t, set)
	assert.Empty(t, os.Getenv("DATABASE_URL"))
}

func TestLoadInvalidValues(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		isolate(t)
		t.Setenv("PORT", "eighty")

		_, err := Load()
		assert.ErrorContains(t, err, "port")
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("port: [1, 2"), 0o600))

		_, err := Load()
		assert.ErrorContains(t, err, "failed to parse config file")
	})
}

func validConfig() *PetitionConfig {
	c := newDefault()
	c.DatabaseURL = "postgres://localhost/petition"
	c.SessionSecret = "0123456789abcdef"
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *PetitionConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*PetitionConfig) {}},
		{name: "missing database url", mutate: func(c *PetitionConfig) { c.DatabaseURL = "" }, wantErr: "database_url is required"},
		{name: "missing secret", mutate: func(c *PetitionConfig) { c.SessionSecret = "" }, wantErr: "session_secret is required"},
		{name: "short secret", mutate: func(c *PetitionConfig) { c.SessionSecret = "short" }, wantErr: "at least 16"},
		{name: "bad port", mutate: func(c *PetitionConfig) { c.Port = 70000 }, wantErr: "invalid port"},
		{name: "relative base url", mutate: func(c *PetitionConfig) { c.BaseURL = "/admin" }, wantErr: "invalid base_url"},
		{name: "zero ttl", mutate: func(c *PetitionConfig) { c.SessionTTL = 0 }, wantErr: "session_ttl"},
		{name: "unknown store", mutate: func(c *PetitionConfig) { c.SessionStore = "memcached" }, wantErr: "invalid session_store"},
		{name: "redis without url", mutate: func(c *PetitionConfig) { c.SessionStore = SessionStoreRedis }, wantErr: "redis_url is required"},
		{name: "default above max", mutate: func(c *PetitionConfig) { c.ListLimitDefault = 600 }, wantErr: "invalid list limits"},
		{name: "zero timeout", mutate: func(c *PetitionConfig) { c.RequestTimeout = 0 }, wantErr: "request_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAttributesMaskSecrets(t *testing.T) {
	c := validConfig()

	values := map[string]string{}
	for _, attr := range c.Attributes() {
		values[attr.Name] = attr.Value
	}
	assert.Equal(t, "********", values["database_url"])
	assert.Equal(t, "********", values["session_secret"])
	assert.Equal(t, "", values["audit_database_url"])
	assert.Equal(t, "3000", values["port"])

	assert.NotContains(t, c.FormatText(), "0123456789abcdef")
	assert.Contains(t, c.FormatText(), "(not set)")
}

func TestFormatJSON(t *testing.T) {
	c := validConfig()

	out, err := c.FormatJSON()
	require.NoError(t, err)

	var decoded struct {
		Attributes []Attribute `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded.Attributes, len(attributes))
}
