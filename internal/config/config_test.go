package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "Authorization", cfg.API.AuthHeader)
	assert.Equal(t, "file", cfg.Session.Driver)
	assert.Equal(t, uint32(5), cfg.API.CircuitBreak.ConsecutiveFailures)
	assert.Equal(t, []string{"*"}, cfg.Security.CORS.AllowOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"relative base url", func(c *Config) { c.API.BaseURL = "/api" }, "invalid api base_url"},
		{"rate limit without rps", func(c *Config) { c.API.RateLimit.Enabled = true }, "rps must be positive"},
		{"unknown driver", func(c *Config) { c.Session.Driver = "etcd" }, "unknown session driver"},
		{"tracing without endpoint", func(c *Config) { c.Tracing.Enabled = true }, "tracing endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.SetDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  port: 9000
api:
  base_url: https://shop.example.com
  timeout: 5s
  rate_limit:
    enabled: true
    rps: 20
session:
  driver: memory
`)

	t.Run("file values", func(t *testing.T) {
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "https://shop.example.com", cfg.API.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.API.Timeout)
		assert.Equal(t, 20.0, cfg.API.RateLimit.RPS)
		assert.Equal(t, "memory", cfg.Session.Driver)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Same(t, cfg, GetConfig())
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("SHOPADMIN_API_BASE_URL", "http://127.0.0.1:4000")
		t.Setenv("SHOPADMIN_LOG_LEVEL", "debug")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:4000", cfg.API.BaseURL)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("env overlay", func(t *testing.T) {
		writeFile(t, dir, "config.staging.yaml", `
api:
  base_url: https://staging.example.com
`)
		t.Setenv(EnvName, "staging")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "https://staging.example.com", cfg.API.BaseURL)
		assert.Equal(t, 9000, cfg.Server.Port)
	})

	t.Run("invalid file", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.yaml", "session:\n  driver: etcd\n")
		_, err := LoadConfig(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SHOPADMIN_TEST_VALUE", "x")
	assert.Equal(t, "x", GetEnv("SHOPADMIN_TEST_VALUE", "y"))
	assert.Equal(t, "y", GetEnv("SHOPADMIN_TEST_MISSING", "y"))
}
