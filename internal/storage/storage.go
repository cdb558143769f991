// Package storage provides the key-value capability the profile store
// persists through, with in-memory, SQLite and Redis backends.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a string key-value store. Implementations must be safe for
// concurrent use.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Prefixed namespaces every key of the wrapped store.
type Prefixed struct {
	Storage
	prefix string
}

// WithPrefix wraps s so that all keys are stored as prefix+key.
func WithPrefix(s Storage, prefix string) *Prefixed {
	return &Prefixed{Storage: s, prefix: prefix}
}

// Get reads prefix+key.
func (p *Prefixed) Get(ctx context.Context, key string) (string, error) {
	return p.Storage.Get(ctx, p.prefix+key)
}

// Set writes prefix+key.
func (p *Prefixed) Set(ctx context.Context, key, value string) error {
	return p.Storage.Set(ctx, p.prefix+key, value)
}

// Delete removes prefix+key.
func (p *Prefixed) Delete(ctx context.Context, key string) error {
	return p.Storage.Delete(ctx, p.prefix+key)
}
