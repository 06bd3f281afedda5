package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazri/wagebook/config"
)

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "wagebook.db", cfg.Database)

	ttl, err := cfg.TokenTTL()
	require.NoError(t, err)
	assert.Equal(t, 720*time.Hour, ttl)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9090"
database: "/tmp/test.db"
auth:
  secret: "s3cret"
  token_ttl: "24h"
cors_origins:
  - "https://app.example.com"
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "/tmp/test.db", cfg.Database)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)

	ttl, err := cfg.TokenTTL()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unclosed"), 0o600))
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestTokenTTL_RejectsBadValues(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.TokenTTL = "soon"
	_, err := cfg.TokenTTL()
	assert.Error(t, err)

	cfg.Auth.TokenTTL = "-1h"
	_, err = cfg.TokenTTL()
	assert.Error(t, err)
}
