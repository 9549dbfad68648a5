// Package cache provides byte-level caches for derived tree views.
//
// Deriving a layout is cheap for small trees but adds up for large ones
// served over the API, so the pipeline memoizes its results behind the
// [Cache] interface. Three implementations are provided:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON entry per key on disk, for the CLI
//   - [RedisCache]: shared cache for API servers
//
// Keys are produced by a [Keyer] so every entry point derives identical keys
// for identical inputs.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
//
// Get reports a miss with ok == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
// It returns the number of entries removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// TTLDerive is how long a derived view stays cached. Derived views are keyed
// on content, so expiry only bounds storage.
const TTLDerive = 7 * 24 * time.Hour
