package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := NewLoader("").Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "mock", cfg.Provider)
	assert.Equal(t, "hi-IN", cfg.DefaultLanguage)
	assert.Equal(t, 3*time.Second, cfg.CollaboratorTimeout)
	assert.Equal(t, "static", cfg.CatalogSource)
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("listen: \":9090\"\nprovider: twilio\nbase_url: https://calls.example.org\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("SAHAYA_CALL_PROVIDER", "connect")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	// File overrides defaults, ENV overrides file.
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "connect", cfg.Provider)
	assert.Equal(t, "https://calls.example.org", cfg.BaseURL)
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("SAHAYA_BASE_URL", "https://hooks.example.net")

	cfg, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.net", cfg.BaseURL)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o600))

	_, err := NewLoader(path).Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(*AppConfig) {}},
		{name: "empty listen", mutate: func(c *AppConfig) { c.Listen = "" }, wantErr: true},
		{name: "relative base url", mutate: func(c *AppConfig) { c.BaseURL = "/api" }, wantErr: true},
		{name: "trailing slash base url", mutate: func(c *AppConfig) { c.BaseURL = "https://x.example/" }, wantErr: true},
		{name: "zero collaborator timeout", mutate: func(c *AppConfig) { c.CollaboratorTimeout = 0 }, wantErr: true},
		{name: "unknown catalog source", mutate: func(c *AppConfig) { c.CatalogSource = "redis" }, wantErr: true},
		{name: "unknown notify sender", mutate: func(c *AppConfig) { c.NotifySender = "pigeon" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
