// Package cache stores rendered artifacts and generated image references.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//
// Keys come from a [Keyer] so every backend uses the same layout. Wrap a
// keyer with [NewScopedKeyer] to isolate deployments sharing one Redis.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	ImageTTL    = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
