// Package cache stores compiled artifacts keyed by internal/fingerprint.Of,
// so an unchanged contract never pays for recompilation. Three backends
// are provided (Redis, SQL, MongoDB), each wrapping that store's own Go
// client; all share the ArtifactCache interface so
// internal/config.CacheBackend selects one at startup.
package cache

import (
	"context"
	"time"
)

// ArtifactCache gets and sets raw compiled bytecode by fingerprint key.
type ArtifactCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, bytecode []byte, ttl time.Duration) error
	Close() error
}

// NopCache never stores anything; every Get misses. Used when
// config.CacheBackendNone is selected.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopCache) Close() error                                              { return nil }
