package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wastezero/wastezero/internal/config"
)

const redisPingTimeout = 3 * time.Second

// OpenCache connects to the Redis server named by cfg.RedisURL. It returns a
// nil client when no URL is configured; the API then runs without the login
// rate limit and idempotency cache, and the redis storage driver is
// unavailable.
func OpenCache(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		if cfg.StorageDriver == config.DriverRedis {
			return nil, fmt.Errorf("storage driver %s needs REDIS_URL", config.DriverRedis)
		}
		return nil, nil
	}
	return NewRedisClient(ctx, cfg.RedisURL)
}

// NewRedisClient parses a redis:// URL and pings the server before returning.
// The ping is bounded so a missing server fails startup instead of hanging it.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opt.Addr, err)
	}

	return client, nil
}
