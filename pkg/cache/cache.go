// Package cache stores serialized sweep results keyed by a fingerprint of
// the problem that produced them, so repeated runs over an unchanged
// problem file skip the sweep entirely.
//
// Three backends are provided: a file cache for CLI usage, a Redis cache
// for server deployments where multiple instances share results, and a
// null cache for tests or --no-cache runs. All backends store opaque bytes
// with a TTL; serialization is the caller's concern.
package cache

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is how long cached sweep results remain valid. Results are
// pure functions of the problem, so the TTL exists only to bound disk and
// Redis growth.
const DefaultTTL = 7 * 24 * time.Hour

// Sentinel errors for caching operations.
var (
	// ErrClosed is returned by operations on a closed cache.
	ErrClosed = errors.New("cache closed")
)

// Cache stores opaque byte values with expiration.
type Cache interface {
	// Get retrieves the value for key. The second return value reports
	// whether the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key for the given TTL. A zero TTL means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry for key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
