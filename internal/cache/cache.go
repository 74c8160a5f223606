package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss is returned when no cached value exists for a key.
var ErrMiss = errors.New("cache miss")

// QueryCache is a small read-through cache for repeated list queries. Values
// are stored as JSON under a namespaced key so whole namespaces can be
// invalidated when the underlying rows change.
type QueryCache struct {
	client  *redis.Client
	ttl     time.Duration
	enabled bool
	logger  *zap.Logger
}

// New builds a cache around an existing redis client. A nil client disables
// caching entirely; callers fall through to the database.
func New(client *redis.Client, ttl time.Duration, logger *zap.Logger) *QueryCache {
	return &QueryCache{client: client, ttl: ttl, enabled: client != nil, logger: logger}
}

// Get unmarshals the cached value for key into dest.
func (c *QueryCache) Get(ctx context.Context, key string, dest any) error {
	if !c.enabled {
		return ErrMiss
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return ErrMiss
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return ErrMiss
	}
	return nil
}

// Set stores value under key with the configured TTL. Failures are logged
// and swallowed; the cache is an optimization, not a source of truth.
func (c *QueryCache) Set(ctx context.Context, key string, value any) {
	if !c.enabled {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidatePrefix drops every key under the given namespace prefix.
func (c *QueryCache) InvalidatePrefix(ctx context.Context, prefix string) {
	if !c.enabled {
		return
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("cache invalidate failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("cache scan failed", zap.String("prefix", prefix), zap.Error(err))
	}
}
