package infra

import (
	"context"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/wastezero/wastezero/internal/config"
)

func TestNewStorageDrivers(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cache, err := NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer cache.Close()

	for _, driver := range []string{config.DriverMemory, config.DriverSQLite, config.DriverRedis} {
		t.Run(driver, func(t *testing.T) {
			cfg := config.Default()
			cfg.StorageDriver = driver
			cfg.SQLitePath = filepath.Join(t.TempDir(), "wz.db")

			s, err := NewStorage(ctx, cfg, cache)
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.Set(ctx, "theme", "light"))
			got, err := s.Get(ctx, "theme")
			require.NoError(t, err)
			require.Equal(t, "light", got)
		})
	}

	v, err := mr.Get("wastezero_theme")
	require.NoError(t, err)
	require.Equal(t, "light", v)
}

func TestNewStorageRedisWithoutClient(t *testing.T) {
	cfg := config.Default()
	cfg.StorageDriver = config.DriverRedis

	_, err := NewStorage(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestNewRedisClientRequiresURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "")
	require.Error(t, err)
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.StorageDriver = config.DriverSQLite
	cache, err := OpenCache(ctx, cfg)
	require.NoError(t, err)
	require.Nil(t, cache)

	cfg.StorageDriver = config.DriverRedis
	_, err = OpenCache(ctx, cfg)
	require.Error(t, err)

	mr := miniredis.RunT(t)
	cfg.RedisURL = "redis://" + mr.Addr()
	cache, err = OpenCache(ctx, cfg)
	require.NoError(t, err)
	defer cache.Close()
	require.NoError(t, cache.Ping(ctx).Err())
}
