package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// recoveryInterval is how long the failover waits before probing the primary
// again after a failure.
const recoveryInterval = time.Minute

// FailoverKV serves from a primary backend and falls back to a secondary one
// when the primary errors, probing the primary again after recoveryInterval.
type FailoverKV struct {
	primary  KV
	fallback KV
	logger   *zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverKV(primary, fallback KV, logger *zerolog.Logger) *FailoverKV {
	return &FailoverKV{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FailoverKV) markDown(err error) {
	f.logger.Error().Err(err).Msg("Primary storage failed, falling back to memory")
	f.isDown.Store(true)
	f.mu.Lock()
	f.lastCheck = time.Now()
	f.mu.Unlock()
}

func (f *FailoverKV) shouldRetryPrimary() bool {
	if !f.isDown.Load() {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if time.Since(f.lastCheck) > recoveryInterval {
		f.lastCheck = time.Now()
		return true
	}
	return false
}

func (f *FailoverKV) Get(ctx context.Context, key string) (string, error) {
	if f.shouldRetryPrimary() {
		val, err := f.primary.Get(ctx, key)
		if err == nil || errors.Is(err, ErrKeyNotFound) {
			f.isDown.Store(false)
			return val, err
		}
		f.markDown(err)
	}
	return f.fallback.Get(ctx, key)
}

func (f *FailoverKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.shouldRetryPrimary() {
		err := f.primary.Set(ctx, key, value, ttl)
		if err == nil {
			f.isDown.Store(false)
			return nil
		}
		f.markDown(err)
	}
	return f.fallback.Set(ctx, key, value, ttl)
}

func (f *FailoverKV) Delete(ctx context.Context, key string) error {
	if f.shouldRetryPrimary() {
		err := f.primary.Delete(ctx, key)
		if err == nil {
			f.isDown.Store(false)
			return nil
		}
		f.markDown(err)
	}
	return f.fallback.Delete(ctx, key)
}

func (f *FailoverKV) Close() error {
	errPrimary := f.primary.Close()
	errFallback := f.fallback.Close()
	if errPrimary != nil {
		return errPrimary
	}
	return errFallback
}
