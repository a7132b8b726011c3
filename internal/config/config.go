// Package config defines the top-level configuration for the explorer
// backend and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by ALGONARCHY_* environment variables.
type Config struct {
	Algod    AlgodConfig  `toml:"algod"`
	Dex      DexConfig    `toml:"dex"`
	Price    PriceConfig  `toml:"price"`
	Redis    RedisConfig  `toml:"redis"`
	Cache    CacheConfig  `toml:"cache"`
	Ticker   TickerConfig `toml:"ticker"`
	Server   ServerConfig `toml:"server"`
	Mode     string       `toml:"mode"`
	LogLevel string       `toml:"log_level"`
}

// AlgodConfig holds the Algorand node and indexer endpoints.
type AlgodConfig struct {
	AlgodURL   string `toml:"algod_url"`
	IndexerURL string `toml:"indexer_url"`
	Token      string `toml:"token"`
}

// DexConfig holds per-venue analytics API endpoints.
type DexConfig struct {
	Tinyman VenueConfig `toml:"tinyman"`
	Pact    VenueConfig `toml:"pact"`
	Vestige VenueConfig `toml:"vestige"`
}

// VenueConfig holds one DEX analytics API endpoint.
type VenueConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// PriceConfig holds the market-data API endpoints for the spot price.
type PriceConfig struct {
	CoinPaprikaURL   string `toml:"coinpaprika_url"`
	CryptoCompareURL string `toml:"cryptocompare_url"`
	CoinGeckoURL     string `toml:"coingecko_url"`
}

// RedisConfig holds Redis connection parameters. When Enabled is false the
// explorer runs without caching, rate limiting, or live WebSocket updates.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// CacheConfig holds TTLs for the read-through caches.
type CacheConfig struct {
	QuoteTTL duration `toml:"quote_ttl"`
	PoolTTL  duration `toml:"pool_ttl"`
}

// TickerConfig holds the dashboard polling interval.
type TickerConfig struct {
	Interval duration `toml:"interval"`
}

// RateLimitConfig holds per-client API rate limit parameters.
type RateLimitConfig struct {
	Enabled bool     `toml:"enabled"`
	Limit   int      `toml:"limit"`
	Window  duration `toml:"window"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled      bool            `toml:"enabled"`
	Port         int             `toml:"port"`
	CORSOrigins  []string        `toml:"cors_origins"`
	APIKey       string          `toml:"api_key"`
	ProxyEnabled bool            `toml:"proxy_enabled"`
	RateLimit    RateLimitConfig `toml:"rate_limit"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Algod: AlgodConfig{
			AlgodURL:   "https://mainnet-api.algonode.cloud",
			IndexerURL: "https://mainnet-idx.algonode.cloud",
		},
		Dex: DexConfig{
			Tinyman: VenueConfig{BaseURL: "https://mainnet.analytics.tinyman.org"},
			Pact:    VenueConfig{BaseURL: "https://api.pact.fi"},
			Vestige: VenueConfig{BaseURL: "https://free-api.vestige.fi"},
		},
		Price: PriceConfig{
			CoinPaprikaURL:   "https://api.coinpaprika.com/v1",
			CryptoCompareURL: "https://min-api.cryptocompare.com/data",
			CoinGeckoURL:     "https://api.coingecko.com/api/v3",
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Cache: CacheConfig{
			QuoteTTL: duration{10 * time.Second},
			PoolTTL:  duration{30 * time.Second},
		},
		Ticker: TickerConfig{
			Interval: duration{10 * time.Second},
		},
		Server: ServerConfig{
			Enabled:      true,
			Port:         8000,
			CORSOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
			ProxyEnabled: true,
			RateLimit: RateLimitConfig{
				Enabled: false,
				Limit:   60,
				Window:  duration{time.Minute},
			},
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"server":  true,
	"monitor": true,
	"full":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: server, monitor, full)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Algod endpoints
	if c.Algod.AlgodURL == "" {
		errs = append(errs, "algod: algod_url must not be empty")
	}
	if c.Algod.IndexerURL == "" {
		errs = append(errs, "algod: indexer_url must not be empty")
	}

	// DEX endpoints
	if c.Dex.Tinyman.BaseURL == "" {
		errs = append(errs, "dex: tinyman.base_url must not be empty")
	}
	if c.Dex.Pact.BaseURL == "" {
		errs = append(errs, "dex: pact.base_url must not be empty")
	}
	if c.Dex.Vestige.BaseURL == "" {
		errs = append(errs, "dex: vestige.base_url must not be empty")
	}

	// Price endpoints
	if c.Price.CoinPaprikaURL == "" && c.Price.CryptoCompareURL == "" && c.Price.CoinGeckoURL == "" {
		errs = append(errs, "price: at least one market-data URL must be set")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Cache
	if c.Cache.QuoteTTL.Duration <= 0 {
		errs = append(errs, "cache: quote_ttl must be > 0")
	}
	if c.Cache.PoolTTL.Duration <= 0 {
		errs = append(errs, "cache: pool_ttl must be > 0")
	}

	// Ticker
	if c.Ticker.Interval.Duration <= 0 {
		errs = append(errs, "ticker: interval must be > 0")
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
		if c.Server.RateLimit.Enabled {
			if !c.Redis.Enabled {
				errs = append(errs, "server: rate_limit requires redis to be enabled")
			}
			if c.Server.RateLimit.Limit < 1 {
				errs = append(errs, "server: rate_limit.limit must be >= 1")
			}
			if c.Server.RateLimit.Window.Duration <= 0 {
				errs = append(errs, "server: rate_limit.window must be > 0")
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
