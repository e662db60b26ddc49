package price

import (
	"context"
	"time"

	redisclient "pythia/internal/adapters/redis"
	"pythia/pkg/logger"
)

// Compile-time check
var _ Cache = (*RedisCache)(nil)

// RedisCache caches resolved per-minute prices in Redis. Every failure is a
// miss; the resolver stays correct without Redis, just slower.
type RedisCache struct {
	client *redisclient.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisCache creates a price cache with the given TTL
func NewRedisCache(client *redisclient.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		log:    logger.Get().With("component", "price_cache"),
	}
}

// GetPrice looks up a cached price
func (c *RedisCache) GetPrice(ctx context.Context, key string) (float64, bool) {
	var value float64
	if err := c.client.Get(ctx, key, &value); err != nil {
		if !redisclient.IsMiss(err) {
			c.log.Debugf("price cache get %s: %v", key, err)
		}
		return 0, false
	}
	return value, true
}

// SetPrice stores a resolved price
func (c *RedisCache) SetPrice(ctx context.Context, key string, value float64) {
	if err := c.client.Set(ctx, key, value, c.ttl); err != nil {
		c.log.Debugf("price cache set %s: %v", key, err)
	}
}
