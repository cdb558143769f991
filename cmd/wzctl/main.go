package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/wastezero/wastezero/internal/config"
	"github.com/wastezero/wastezero/internal/infra"
	"github.com/wastezero/wastezero/internal/storage"
)

func main() {
	if err := newRootCmd(openConfiguredStorage).Execute(); err != nil {
		os.Exit(1)
	}
}

// openConfiguredStorage opens the same backend the API server would use.
func openConfiguredStorage(ctx context.Context) (storage.Storage, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	// only the redis driver needs a connection here
	var cache *redis.Client
	if cfg.StorageDriver == config.DriverRedis {
		cache, err = infra.OpenCache(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
	}

	kv, err := infra.NewStorage(ctx, cfg, cache)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, nil, err
	}

	closeFn := func() {
		kv.Close()
		if cache != nil {
			cache.Close()
		}
	}
	return kv, closeFn, nil
}
