package cache

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/matzehuels/geomkit/pkg/config"
)

// sqliteFile names the database inside the cache directory when no path is
// configured.
const sqliteFile = "cache.sqlite"

// Open builds the backend selected by cfg. dir is the fallback directory for
// the file and sqlite backends when cfg leaves it empty.
func Open(ctx context.Context, cfg config.Cache, dir string) (Cache, error) {
	if cfg.Dir != "" {
		dir = cfg.Dir
	}
	switch cfg.Backend {
	case config.CacheNull:
		return NewNullCache(), nil
	case "", config.CacheFile:
		if dir == "" {
			return nil, fmt.Errorf("file cache needs a directory")
		}
		return NewFileCache(dir)
	case config.CacheSQLite:
		path := cfg.Path
		if path == "" {
			if dir == "" {
				return nil, fmt.Errorf("sqlite cache needs a path or directory")
			}
			path = filepath.Join(dir, sqliteFile)
		}
		return NewSQLiteCache(ctx, path)
	case config.CacheRedis:
		return NewRedisCache(ctx, cfg.URL, cfg.Prefix)
	case config.CacheMongo:
		db := cfg.Database
		if db == "" {
			db = "geomkit"
		}
		return NewMongoCache(ctx, cfg.URL, db)
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
