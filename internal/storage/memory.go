package storage

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero = no expiry
}

// MemoryKV is the in-process fallback backend.
type MemoryKV struct {
	entries sync.Map
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	val, ok := m.entries.Load(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	entry := val.(memoryEntry)
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.entries.Delete(key)
		return "", ErrKeyNotFound
	}
	return entry.value, nil
}

func (m *MemoryKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.entries.Store(key, entry)
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.entries.Delete(key)
	return nil
}

func (m *MemoryKV) Close() error { return nil }
