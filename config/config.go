/*
Package config loads server configuration from a YAML file.

PURPOSE:
  One small struct covers the whole server: listen address, database
  path, token signing, and allowed CORS origins. Every field has a
  working default so the server runs with no config file at all;
  command-line flags in cmd/server override whatever the file set.

EXAMPLE (config.yaml):
  addr: ":8080"
  database: "./data/wagebook.db"
  auth:
    secret: "change-me"
    token_ttl: "720h"
  cors_origins:
    - "http://localhost:5173"
*/
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Auth holds token-signing settings.
type Auth struct {
	Secret   string `yaml:"secret"`
	TokenTTL string `yaml:"token_ttl"`
}

// Config is the full server configuration.
type Config struct {
	Addr        string   `yaml:"addr"`
	Database    string   `yaml:"database"`
	Auth        Auth     `yaml:"auth"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Default returns a configuration that works out of the box.
func Default() Config {
	return Config{
		Addr:     ":8080",
		Database: "wagebook.db",
		Auth: Auth{
			Secret:   "dev-secret-change-me",
			TokenTTL: "720h",
		},
		CORSOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not
// an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// TokenTTL parses the configured token lifetime.
func (c Config) TokenTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(c.Auth.TokenTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid token_ttl %q: %w", c.Auth.TokenTTL, err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("token_ttl must be positive")
	}
	return ttl, nil
}
