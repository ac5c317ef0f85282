package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_ENV", "LOG_LEVEL", "SERVER_PORT",
	"FLEET_API_URL", "FLEET_API_TIMEOUT_SECONDS", "FLEET_API_RATE_PER_SECOND", "FLEET_API_BURST",
	"REDIS_URL", "SESSION_TTL_HOURS", "SESSION_COOKIE",
	"PROXY_ENABLED", "PROXY_HOSTNAME", "PROXY_PORT",
	"DASHBOARD_CACHE_SECONDS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedKeys {
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range managedKeys {
			os.Unsetenv(k)
		}
	})
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	os.Setenv("FLEET_API_URL", "https://fleet.test/api")

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 15*time.Second, cfg.FleetAPI.Timeout())
	assert.Equal(t, 20, cfg.FleetAPI.RatePerSecond)
	assert.Equal(t, 40, cfg.FleetAPI.Burst)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 168*time.Hour, cfg.Session.TTL())
	assert.Equal(t, "fleet_session", cfg.Session.CookieName)
	assert.False(t, cfg.Proxy.Enabled)
	assert.Equal(t, 30*time.Second, cfg.DashboardCacheTTL())
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	clearEnv(t)
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("FLEET_API_URL", "https://example.com/api")
	os.Setenv("FLEET_API_TIMEOUT_SECONDS", "5")
	os.Setenv("PROXY_ENABLED", "true")
	os.Setenv("PROXY_HOSTNAME", "proxy.local")
	os.Setenv("PROXY_PORT", "3128")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "https://example.com/api", cfg.FleetAPI.URL)
	assert.Equal(t, 5*time.Second, cfg.FleetAPI.Timeout())
	assert.True(t, cfg.Proxy.Enabled)
	assert.Equal(t, "proxy.local", cfg.Proxy.Hostname)
	assert.Equal(t, 3128, cfg.Proxy.Port)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	clearEnv(t)
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
FLEET_API_URL=https://staging.example.com/api
SESSION_COOKIE=staging_session
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "https://staging.example.com/api", cfg.FleetAPI.URL)
	assert.Equal(t, "staging_session", cfg.Session.CookieName)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration: FLEET_API_URL")
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	clearEnv(t)
	os.Setenv("FLEET_API_URL", "https://fleet.test/api")
	os.Setenv("FLEET_API_TIMEOUT_SECONDS", "0")

	_, err := Load(".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FLEET_API_TIMEOUT_SECONDS")
}
