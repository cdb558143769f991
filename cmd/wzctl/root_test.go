package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wastezero/wastezero/internal/logging"
	"github.com/wastezero/wastezero/internal/profile"
	"github.com/wastezero/wastezero/internal/storage"
)

func run(t *testing.T, kv storage.Storage, args ...string) (string, error) {
	t.Helper()
	open := func(context.Context) (storage.Storage, func(), error) {
		return kv, func() {}, nil
	}
	cmd := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProfileCommand(t *testing.T) {
	kv := storage.NewMemory()
	store := profile.NewStore(kv, logging.Discard())
	require.NoError(t, store.Save(context.Background(), profile.UserProfile{Name: "Ada", Email: "ada@example.com", Skills: []string{"composting"}}))

	out, err := run(t, kv, "profile")
	require.NoError(t, err)
	require.Contains(t, out, `"name": "Ada"`)
	require.Contains(t, out, `"composting"`)
}

func TestThemeCommand(t *testing.T) {
	kv := storage.NewMemory()

	out, err := run(t, kv, "theme")
	require.NoError(t, err)
	require.Equal(t, "system", strings.TrimSpace(out))

	out, err = run(t, kv, "theme", "dark")
	require.NoError(t, err)
	require.Equal(t, "dark", strings.TrimSpace(out))

	out, err = run(t, kv, "theme")
	require.NoError(t, err)
	require.Equal(t, "dark", strings.TrimSpace(out))

	_, err = run(t, kv, "theme", "sepia")
	require.Error(t, err)
}

func TestSessionCommandWithoutSession(t *testing.T) {
	out, err := run(t, storage.NewMemory(), "session")
	require.NoError(t, err)
	require.Contains(t, out, "no session recorded")
}
