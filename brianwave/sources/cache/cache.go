// brianwave/sources/cache/cache.go
package cache

import (
	"context"
	"time"

	"github.com/joshua-sigston/brianwave/brianwave/utils/logging"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ViewCache holds rendered page fragments. Writes that change a note must
// invalidate the owner's dashboard view and the note's detail view; cache
// errors are logged and swallowed, a miss is never worse than a render.
// Keys carry the owner id: a cached page must be exactly as private as the
// query that rendered it, so another user's lookup of the same note id has
// to miss.
type ViewCache interface {
	GetPage(ctx context.Context, key string) (string, bool)
	PutPage(ctx context.Context, key, html string, ttl time.Duration)
	InvalidateDashboard(ctx context.Context, userID string)
	InvalidateNote(ctx context.Context, userID, noteID string)
}

func DashboardKey(userID string) string {
	return "views:dashboard:" + userID
}

func NoteKey(userID, noteID string) string {
	return "views:note:" + userID + ":" + noteID
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) GetPage(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		logging.ErrorLogger.Error("view cache get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return val, true
}

func (c *RedisCache) PutPage(ctx context.Context, key, html string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, html, ttl).Err(); err != nil {
		logging.ErrorLogger.Error("view cache put failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisCache) InvalidateDashboard(ctx context.Context, userID string) {
	c.del(ctx, DashboardKey(userID))
}

func (c *RedisCache) InvalidateNote(ctx context.Context, userID, noteID string) {
	c.del(ctx, NoteKey(userID, noteID))
}

func (c *RedisCache) del(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logging.ErrorLogger.Error("view cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}

// NopCache keeps the app runnable without a redis endpoint configured.
type NopCache struct{}

func (NopCache) GetPage(ctx context.Context, key string) (string, bool) { return "", false }

func (NopCache) PutPage(ctx context.Context, key, html string, ttl time.Duration) {}

func (NopCache) InvalidateDashboard(ctx context.Context, userID string) {}

func (NopCache) InvalidateNote(ctx context.Context, userID, noteID string) {}
