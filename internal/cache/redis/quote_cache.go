package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

// QuoteCache implements domain.QuoteCache using Redis string values. Each
// quote is stored as JSON at key "quote:{in}:{out}:{amount}" with a TTL so
// stale quotes age out on their own.
type QuoteCache struct {
	rdb *redis.Client
}

// NewQuoteCache creates a QuoteCache backed by the given Client.
func NewQuoteCache(c *Client) *QuoteCache {
	return &QuoteCache{rdb: c.Underlying()}
}

func quoteKey(inputAsset, outputAsset, inputAmount uint64) string {
	return "quote:" + strconv.FormatUint(inputAsset, 10) +
		":" + strconv.FormatUint(outputAsset, 10) +
		":" + strconv.FormatUint(inputAmount, 10)
}

// GetQuote retrieves a cached quote. It returns domain.ErrNotFound when the
// key does not exist or has expired.
func (qc *QuoteCache) GetQuote(ctx context.Context, inputAsset, outputAsset, inputAmount uint64) (domain.Quote, error) {
	key := quoteKey(inputAsset, outputAsset, inputAmount)
	data, err := qc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Quote{}, domain.ErrNotFound
		}
		return domain.Quote{}, fmt.Errorf("redis: get quote %s: %w", key, err)
	}

	var q domain.Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return domain.Quote{}, fmt.Errorf("redis: decode quote %s: %w", key, err)
	}
	return q, nil
}

// SetQuote stores a quote under its request key for the given TTL.
func (qc *QuoteCache) SetQuote(ctx context.Context, q domain.Quote, ttl time.Duration) error {
	key := quoteKey(q.InputAsset, q.OutputAsset, q.InputAmount)
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("redis: encode quote %s: %w", key, err)
	}
	if err := qc.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set quote %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.QuoteCache = (*QuoteCache)(nil)
