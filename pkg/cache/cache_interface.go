package cache

import (
	"context"
	"time"
)

// Cache is the contract for the read cache layer. Implementations must treat
// every failure as a cache miss so callers can stay best-effort.
type Cache interface {
	// Get looks up key and unmarshals the stored value into dest.
	// found=false means cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// Noop is a Cache that stores nothing. Wired when Redis is unavailable so
// services never have to nil-check their cache.
type Noop struct{}

func NewNoop() Cache { return Noop{} }

func (Noop) Get(ctx context.Context, key string, dest interface{}) (bool, error) { return false, nil }
func (Noop) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (Noop) Delete(ctx context.Context, keys ...string) error { return nil }
func (Noop) Ping(ctx context.Context) error                   { return nil }
