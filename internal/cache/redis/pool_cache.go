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

// PoolCache implements domain.PoolCache using Redis string values. Pool
// snapshots for a pair are stored as a JSON array at key
// "pools:{min}:{max}"; the pair is normalized so both orderings of the same
// two assets hit the same entry.
type PoolCache struct {
	rdb *redis.Client
}

// NewPoolCache creates a PoolCache backed by the given Client.
func NewPoolCache(c *Client) *PoolCache {
	return &PoolCache{rdb: c.Underlying()}
}

func poolKey(asset1, asset2 uint64) string {
	if asset2 < asset1 {
		asset1, asset2 = asset2, asset1
	}
	return "pools:" + strconv.FormatUint(asset1, 10) + ":" + strconv.FormatUint(asset2, 10)
}

// GetPair retrieves cached pool snapshots for a pair. It returns
// domain.ErrNotFound when the key does not exist or has expired.
func (pc *PoolCache) GetPair(ctx context.Context, asset1, asset2 uint64) ([]domain.PoolSnapshot, error) {
	key := poolKey(asset1, asset2)
	data, err := pc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get pools %s: %w", key, err)
	}

	var pools []domain.PoolSnapshot
	if err := json.Unmarshal(data, &pools); err != nil {
		return nil, fmt.Errorf("redis: decode pools %s: %w", key, err)
	}
	return pools, nil
}

// SetPair stores pool snapshots for a pair for the given TTL.
func (pc *PoolCache) SetPair(ctx context.Context, asset1, asset2 uint64, pools []domain.PoolSnapshot, ttl time.Duration) error {
	key := poolKey(asset1, asset2)
	data, err := json.Marshal(pools)
	if err != nil {
		return fmt.Errorf("redis: encode pools %s: %w", key, err)
	}
	if err := pc.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set pools %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.PoolCache = (*PoolCache)(nil)
