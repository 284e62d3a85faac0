// Package cache stores computed scenes and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [NullCache]: stores nothing
//   - [SQLiteCache]: a single-file database through modernc.org/sqlite
//   - [RedisCache]: shared cache for API deployments
//   - [MongoCache]: a collection with a TTL index
//
// [Open] builds a backend from a [config.Cache] section.
//
// # Keys
//
// A [Keyer] derives keys from a dataset hash and the options that affect the
// output, so changing the chart, size or configuration never serves a stale
// entry. [ScopedKeyer] prefixes every key for shared backends.
//
// [config.Cache]: github.com/matzehuels/geomkit/pkg/config.Cache
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 30 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. A ttl of zero stores the
// entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear empties c when it supports clearing and reports whether it did.
func Clear(ctx context.Context, c Cache) (bool, error) {
	cl, ok := c.(Clearer)
	if !ok {
		return false, nil
	}
	return true, cl.Clear(ctx)
}

// Pruner is implemented by caches that can drop expired entries on demand.
// Redis and MongoDB expire entries on their own and do not implement it.
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// Prune drops expired entries of c when it supports pruning. It returns the
// number removed and whether c is a Pruner.
func Prune(ctx context.Context, c Cache) (int64, bool, error) {
	p, ok := c.(Pruner)
	if !ok {
		return 0, false, nil
	}
	n, err := p.Prune(ctx)
	return n, true, err
}
