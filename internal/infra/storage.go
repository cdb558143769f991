package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wastezero/wastezero/internal/config"
	"github.com/wastezero/wastezero/internal/storage"
)

// NewStorage opens the backend selected by cfg.StorageDriver and applies the
// configured key prefix. cache is only consulted for the redis driver.
func NewStorage(ctx context.Context, cfg config.Config, cache *redis.Client) (storage.Storage, error) {
	var backend storage.Storage

	switch cfg.StorageDriver {
	case config.DriverMemory:
		backend = storage.NewMemory()
	case config.DriverSQLite:
		s, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		backend = s
	case config.DriverRedis:
		if cache == nil {
			return nil, fmt.Errorf("redis storage requires a redis client")
		}
		backend = storage.NewRedis(cache)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	return storage.WithPrefix(backend, cfg.StoragePrefix), nil
}
