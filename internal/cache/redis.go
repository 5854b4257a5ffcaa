package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"letrario/internal/http-api/dto"
)

// RedisCache is the distributed implementation of ReadingCache, for
// deployments running more than one API instance. Entries are JSON blobs
// with the TTL enforced by Redis itself.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisCache(addr, password string, logger *slog.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: rdb, logger: logger}, nil
}

func readingKey(userID string) string {
	return fmt.Sprintf("lecturas:user:%s", userID)
}

// Get treats any Redis or decode error as a miss; the pipeline recomputes.
func (c *RedisCache) Get(ctx context.Context, userID string) ([]dto.ReadingItem, bool) {
	raw, err := c.client.Get(ctx, readingKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("reading_cache_get_failed", "user_id", userID, "error", err)
		return nil, false
	}

	var items []dto.ReadingItem
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("reading_cache_decode_failed", "user_id", userID, "error", err)
		return nil, false
	}
	return items, true
}

func (c *RedisCache) Set(ctx context.Context, userID string, items []dto.ReadingItem, ttl time.Duration) {
	raw, err := json.Marshal(items)
	if err != nil {
		c.logger.Warn("reading_cache_encode_failed", "user_id", userID, "error", err)
		return
	}
	if err := c.client.Set(ctx, readingKey(userID), raw, ttl).Err(); err != nil {
		c.logger.Warn("reading_cache_set_failed", "user_id", userID, "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, readingKey(userID)).Err(); err != nil {
		c.logger.Warn("reading_cache_invalidate_failed", "user_id", userID, "error", err)
	}
}
