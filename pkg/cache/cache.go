// Package cache stores tabulation results and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [NullCache]: stores nothing, used with --no-cache
//
// # Keys
//
// A [Keyer] derives keys from content hashes, so identical ballots and
// identical render options always hit the same entry:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(export), cache.ArtifactKeyOpts{Format: "svg"})
//
// [NewScopedKeyer] prefixes every key, which keeps the entries of several
// deployments apart when they share one Redis.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as a miss (false, nil), not as an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the resources held by the cache.
	Close() error
}

// Entry lifetimes. Both kinds of entry are content-addressed, so they only
// expire to bound the size of the store.
const (
	TTLResult   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
