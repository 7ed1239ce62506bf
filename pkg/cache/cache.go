// Package cache provides pluggable storage for packed layouts and rendered
// artifacts.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: stores nothing; used for --no-cache
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: shared cache for the HTTP server
//
// Keys come from a [Keyer] so callers never build them by hand. Layout keys
// hash the item list together with every option that changes placement;
// artifact keys hash the layout together with the render options.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	// TTLLayout is how long a packed layout stays cached. Packing is
	// deterministic, so entries only age out to bound disk usage.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
