package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trackdays/api/pkg/logger"
	"go.uber.org/zap"
)

// Cached list projections. A successful verification invalidates both so the
// next read observes the new state.
const (
	KeyVerifiedList = "views:laptimes:verified"
	KeyAdminList    = "views:laptimes:admin"
)

// ViewCache holds marshaled list projections. It is strictly best-effort:
// a cache failure must never fail the request it serves.
type ViewCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
	Invalidate(ctx context.Context, keys ...string)
}

type redisViewCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisViewCache(rdb *redis.Client, ttl time.Duration) ViewCache {
	return &redisViewCache{rdb: rdb, ttl: ttl}
}

func (c *redisViewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.L().Warn("view cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return b, true
}

func (c *redisViewCache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.L().Warn("view cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *redisViewCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.L().Warn("view cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
