package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/algoranarchy/algoranarchy/internal/algorand"
	"github.com/algoranarchy/algoranarchy/internal/asset"
	"github.com/algoranarchy/algoranarchy/internal/cache/redis"
	"github.com/algoranarchy/algoranarchy/internal/config"
	"github.com/algoranarchy/algoranarchy/internal/dex"
	"github.com/algoranarchy/algoranarchy/internal/dex/aggregator"
	"github.com/algoranarchy/algoranarchy/internal/dex/pact"
	"github.com/algoranarchy/algoranarchy/internal/dex/tinyman"
	"github.com/algoranarchy/algoranarchy/internal/dex/vestige"
	"github.com/algoranarchy/algoranarchy/internal/domain"
	"github.com/algoranarchy/algoranarchy/internal/price"
)

// Dependencies bundles every domain-level dependency that the application
// modes need to operate. It is constructed by Wire and torn down by the
// returned cleanup function.
type Dependencies struct {
	Aggregator *aggregator.Aggregator
	Chain      *algorand.Client
	Price      *price.Service
	Assets     *asset.Registry

	// Redis-backed; nil when Redis is disabled.
	QuoteCache  domain.QuoteCache
	PoolCache   domain.PoolCache
	RateLimiter domain.RateLimiter
	SignalBus   domain.SignalBus
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Chain: algorand.NewClient(cfg.Algod.AlgodURL, cfg.Algod.IndexerURL, cfg.Algod.Token),
		Price: price.NewService(price.Config{
			CoinPaprikaURL:   cfg.Price.CoinPaprikaURL,
			CryptoCompareURL: cfg.Price.CryptoCompareURL,
			CoinGeckoURL:     cfg.Price.CoinGeckoURL,
		}, logger),
		Assets: asset.Default(),
	}

	// --- Redis (optional) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.QuoteCache = redis.NewQuoteCache(redisClient)
		deps.PoolCache = redis.NewPoolCache(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
		deps.SignalBus = redis.NewSignalBus(redisClient)
	}

	// --- DEX aggregator ---
	sources := []dex.QuoteSource{
		tinyman.NewClient(cfg.Dex.Tinyman.BaseURL, cfg.Dex.Tinyman.APIKey),
		pact.NewClient(cfg.Dex.Pact.BaseURL, cfg.Dex.Pact.APIKey),
		vestige.NewClient(cfg.Dex.Vestige.BaseURL, cfg.Dex.Vestige.APIKey),
	}
	deps.Aggregator = aggregator.New(aggregator.Config{
		Sources:    sources,
		QuoteCache: deps.QuoteCache,
		PoolCache:  deps.PoolCache,
		QuoteTTL:   cfg.Cache.QuoteTTL.Duration,
		PoolTTL:    cfg.Cache.PoolTTL.Duration,
		Logger:     logger,
	})

	return deps, cleanup, nil
}
