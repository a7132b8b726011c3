package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "full", cfg.Mode)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "https://mainnet-api.algonode.cloud", cfg.Algod.AlgodURL)
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
mode = "server"
log_level = "debug"

[server]
port = 9000

[cache]
quote_ttl = "5s"

[dex.tinyman]
base_url = "https://example.test"
api_key = "k"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "server", cfg.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Cache.QuoteTTL.Duration)
	assert.Equal(t, "https://example.test", cfg.Dex.Tinyman.BaseURL)
	assert.Equal(t, "k", cfg.Dex.Tinyman.APIKey)
	// Untouched sections keep their defaults.
	assert.Equal(t, "https://api.pact.fi", cfg.Dex.Pact.BaseURL)
}

func TestEnvOverridesWin(t *testing.T) {
	t.Setenv("ALGONARCHY_MODE", "monitor")
	t.Setenv("ALGONARCHY_SERVER_PORT", "8123")
	t.Setenv("ALGONARCHY_REDIS_ENABLED", "true")
	t.Setenv("ALGONARCHY_TICKER_INTERVAL", "30s")
	t.Setenv("ALGONARCHY_SERVER_CORS_ORIGINS", "https://a.test, https://b.test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "monitor", cfg.Mode)
	assert.Equal(t, 8123, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Ticker.Interval.Duration)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.CORSOrigins)
}

func TestValidateRejectsBadMode(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "turbo"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateRateLimitRequiresRedis(t *testing.T) {
	cfg := Defaults()
	cfg.Server.RateLimit.Enabled = true
	cfg.Redis.Enabled = false
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit requires redis")
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "bogus"
	cfg.LogLevel = "loud"
	cfg.Algod.AlgodURL = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "unknown log_level")
	assert.Contains(t, err.Error(), "algod_url")
}
