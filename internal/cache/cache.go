// Package cache provides the byte-level cache used by the read-through
// product repository. Backends are interchangeable; a miss is signalled
// with ErrMiss so callers can tell an absent key from a backend failure.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss indicates the key was not present in the cache.
var ErrMiss = errors.New("cache miss")

// Cache stores serialized values under string keys with a per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Evict(ctx context.Context, keys ...string) error
}

// Noop is a Cache that stores nothing. Every Get is a miss and writes are
// discarded, so it disables caching without changing caller code paths.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (*Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*Noop) Evict(context.Context, ...string) error { return nil }
