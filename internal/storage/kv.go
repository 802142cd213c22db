// Package storage provides the small key/value store the dashboard persists
// into: blocked times under one fixed key, admin sessions under per-token
// keys. Backends: a SQLite file (the durable default), Redis, and memory.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get for absent or expired keys.
var ErrKeyNotFound = errors.New("storage: key not found")

// KV is a namespaced string key/value store. A zero TTL means no expiry.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
