package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ALGONARCHY_* environment variable overrides,
// and returns the final Config. An empty path skips the TOML step so the
// explorer can run from defaults plus environment alone. The returned Config
// has NOT been validated; the caller should invoke Config.Validate() after
// Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ALGONARCHY_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Algod ──
	setStr(&cfg.Algod.AlgodURL, "ALGONARCHY_ALGOD_URL")
	setStr(&cfg.Algod.IndexerURL, "ALGONARCHY_INDEXER_URL")
	setStr(&cfg.Algod.Token, "ALGONARCHY_ALGOD_TOKEN")

	// ── DEX venues ──
	setStr(&cfg.Dex.Tinyman.BaseURL, "ALGONARCHY_DEX_TINYMAN_URL")
	setStr(&cfg.Dex.Tinyman.APIKey, "ALGONARCHY_DEX_TINYMAN_API_KEY")
	setStr(&cfg.Dex.Pact.BaseURL, "ALGONARCHY_DEX_PACT_URL")
	setStr(&cfg.Dex.Pact.APIKey, "ALGONARCHY_DEX_PACT_API_KEY")
	setStr(&cfg.Dex.Vestige.BaseURL, "ALGONARCHY_DEX_VESTIGE_URL")
	setStr(&cfg.Dex.Vestige.APIKey, "ALGONARCHY_DEX_VESTIGE_API_KEY")

	// ── Price feeds ──
	setStr(&cfg.Price.CoinPaprikaURL, "ALGONARCHY_PRICE_COINPAPRIKA_URL")
	setStr(&cfg.Price.CryptoCompareURL, "ALGONARCHY_PRICE_CRYPTOCOMPARE_URL")
	setStr(&cfg.Price.CoinGeckoURL, "ALGONARCHY_PRICE_COINGECKO_URL")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "ALGONARCHY_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "ALGONARCHY_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "ALGONARCHY_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "ALGONARCHY_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "ALGONARCHY_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "ALGONARCHY_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "ALGONARCHY_REDIS_TLS_ENABLED")

	// ── Cache ──
	setDuration(&cfg.Cache.QuoteTTL, "ALGONARCHY_CACHE_QUOTE_TTL")
	setDuration(&cfg.Cache.PoolTTL, "ALGONARCHY_CACHE_POOL_TTL")

	// ── Ticker ──
	setDuration(&cfg.Ticker.Interval, "ALGONARCHY_TICKER_INTERVAL")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "ALGONARCHY_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "ALGONARCHY_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "ALGONARCHY_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "ALGONARCHY_SERVER_API_KEY")
	setBool(&cfg.Server.ProxyEnabled, "ALGONARCHY_SERVER_PROXY_ENABLED")
	setBool(&cfg.Server.RateLimit.Enabled, "ALGONARCHY_SERVER_RATE_LIMIT_ENABLED")
	setInt(&cfg.Server.RateLimit.Limit, "ALGONARCHY_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateLimit.Window, "ALGONARCHY_SERVER_RATE_WINDOW")

	// ── Top-level ──
	setStr(&cfg.Mode, "ALGONARCHY_MODE")
	setStr(&cfg.LogLevel, "ALGONARCHY_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
