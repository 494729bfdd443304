package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"mlbschedule/ingestion/internal/metrics"
)

const scheduleKey = "schedule:full"

// Config holds Redis connection settings.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache caches rendered schedule payloads so repeat API reads
// skip the database.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg Config, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// GetSchedule returns the cached full-schedule payload, or ("", false)
// on a miss.
func (c *RedisCache) GetSchedule(ctx context.Context) (string, bool) {
	val, err := c.client.Get(ctx, scheduleKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("Redis read failed")
		}
		metrics.CacheMissesTotal.Inc()
		return "", false
	}
	metrics.CacheHitsTotal.Inc()
	return val, true
}

// SetSchedule stores the rendered full-schedule payload.
func (c *RedisCache) SetSchedule(ctx context.Context, payload string) {
	if err := c.client.Set(ctx, scheduleKey, payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis write failed")
	}
}

// InvalidateSchedule drops the cached schedule. Called after a
// reconciliation pass changes stored games.
func (c *RedisCache) InvalidateSchedule(ctx context.Context) {
	if err := c.client.Del(ctx, scheduleKey).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis invalidate failed")
	}
}

// Close closes the underlying Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
