// Package cache provides byte-level caching for trees, layouts and rendered
// artifacts.
//
// # Backends
//
//   - [NullCache]: stores nothing, used when caching is disabled
//   - [FileCache]: one JSON file per key under a directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance viewer servers
//
// # Keys
//
// A [Keyer] derives cache keys from content hashes and the options that
// affect the cached value, so changing any option yields a different key.
// [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default time-to-live per cached value kind.
const (
	TTLTree     = 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
