package domain

import (
	"context"
	"time"
)

// QuoteCache provides short-lived read-through caching of live quotes.
type QuoteCache interface {
	GetQuote(ctx context.Context, inputAsset, outputAsset, inputAmount uint64) (Quote, error)
	SetQuote(ctx context.Context, q Quote, ttl time.Duration) error
}

// PoolCache provides short-lived caching of pool snapshots per asset pair.
type PoolCache interface {
	GetPair(ctx context.Context, asset1, asset2 uint64) ([]PoolSnapshot, error)
	SetPair(ctx context.Context, asset1, asset2 uint64, pools []PoolSnapshot, ttl time.Duration) error
}

// RateLimiter provides distributed rate limiting.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// SignalBus provides ephemeral pub/sub messaging between the ticker worker
// and the WebSocket hub.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}
