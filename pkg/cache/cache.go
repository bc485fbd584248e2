// Package cache provides the byte-level document caches used to avoid
// refetching registry metadata between runs.
//
// Three backends share the [Cache] interface: [FileCache] for the CLI's
// XDG cache directory, [RedisCache] for sharing documents between machines,
// and [NullCache] for --no-cache runs and tests. Keys are produced by a
// [Keyer] so different registries never collide.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DefaultDocumentTTL is how long registry documents stay fresh.
const DefaultDocumentTTL = 24 * time.Hour

// Cache stores opaque byte values with an optional expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for
// backend failures. A ttl of zero stores the value without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Keyer derives cache keys.
type Keyer interface {
	// DocumentKey returns the key for a package document from the given registry.
	DocumentKey(registry, name string) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey returns "doc:<sha256>" over the registry and package name,
// so arbitrary base URLs and scoped names are safe in any backend.
func (DefaultKeyer) DocumentKey(registry, name string) string {
	return "doc:" + digest(registry+"\x00"+name)
}

// digest is the hex SHA-256 of s.
func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
