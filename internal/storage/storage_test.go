package storage

import (
	"context"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Storage {
	t.Helper()

	sqliteStore, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]Storage{
		"memory": NewMemory(),
		"sqlite": sqliteStore,
		"redis":  NewRedis(client),
	}
}

func TestBackendsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "profile", `{"name":"Ada"}`))
			got, err := s.Get(ctx, "profile")
			require.NoError(t, err)
			require.Equal(t, `{"name":"Ada"}`, got)

			require.NoError(t, s.Set(ctx, "profile", `{"name":"Grace"}`))
			got, err = s.Get(ctx, "profile")
			require.NoError(t, err)
			require.Equal(t, `{"name":"Grace"}`, got)

			require.NoError(t, s.Delete(ctx, "profile"))
			_, err = s.Get(ctx, "profile")
			require.ErrorIs(t, err, ErrNotFound)
			require.NoError(t, s.Delete(ctx, "profile"))

			require.NoError(t, s.Ping(ctx))
		})
	}
}

func TestPrefixedNamespacesKeys(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	p := WithPrefix(base, "wastezero_")

	require.NoError(t, p.Set(ctx, "theme", "dark"))

	raw, err := base.Get(ctx, "wastezero_theme")
	require.NoError(t, err)
	require.Equal(t, "dark", raw)

	_, err = base.Get(ctx, "theme")
	require.ErrorIs(t, err, ErrNotFound)

	got, err := p.Get(ctx, "theme")
	require.NoError(t, err)
	require.Equal(t, "dark", got)

	require.NoError(t, p.Delete(ctx, "theme"))
	_, err = base.Get(ctx, "wastezero_theme")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	first, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "password", `{"hash":"x"}`))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "password")
	require.NoError(t, err)
	require.Equal(t, `{"hash":"x"}`, got)
}
