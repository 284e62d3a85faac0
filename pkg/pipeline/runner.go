package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geomkit/pkg/cache"
	"github.com/matzehuels/geomkit/pkg/dataset"
	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/observability"
	"github.com/matzehuels/geomkit/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, ds *dataset.Dataset, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	dataHash, err := HashDataset(ds)
	if err != nil {
		return nil, err
	}
	result := &Result{
		DataHash:  dataHash,
		Artifacts: make(map[string][]byte),
	}
	result.Stats.Records = recordCount(ds)

	// Stage 1: Layout
	opts.stage(StageLayout)
	layoutStart := time.Now()
	scene, layoutHit, err := r.LayoutWithCacheInfo(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = scene
	result.Stats.Primitives = scene.Len()
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"chart", opts.Chart,
		"primitives", scene.Len(),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	opts.stage(StageRender)
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, scene, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Stage names passed to Options.Progress.
const (
	StageLayout = "layout"
	StageRender = "render"
)

func (o *Options) stage(name string) {
	if o.Progress != nil {
		o.Progress(name)
	}
}

// LayoutWithCacheInfo computes a scene with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, ds *dataset.Dataset, opts Options) (*geometry.Scene, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	dataHash, err := HashDataset(ds)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.LayoutKey(dataHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			scene, err := geometry.UnmarshalScene(data)
			if err == nil {
				return scene, true, nil // Cache hit
			}
			opts.Logger.Debug("discarding unreadable cached scene", "key", cacheKey, "err", err)
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Chart, recordCount(ds))
	start := time.Now()
	scene, err := Layout(ds, opts)
	primitives := 0
	if scene != nil {
		primitives = scene.Len()
	}
	hooks.OnLayoutComplete(ctx, opts.Chart, primitives, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := sink.RenderJSON(scene); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		}
	}

	return scene, false, nil // Cache miss
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, ds *dataset.Dataset, opts Options) (*geometry.Scene, error) {
	scene, _, err := r.LayoutWithCacheInfo(ctx, ds, opts)
	return scene, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, scene *geometry.Scene, ds *dataset.Dataset, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// The key covers the scene and, for the graph formats, the data behind it.
	sceneData, err := sink.RenderJSON(scene)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	dataHash, err := HashDataset(ds)
	if err != nil {
		return nil, false, err
	}
	cacheKeyHash := cache.Hash(append(sceneData, dataHash...))

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderFromScene(scene, ds, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, scene *geometry.Scene, ds *dataset.Dataset, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, scene, ds, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// HashDataset returns the content hash of a dataset. A nil dataset hashes
// like an empty one.
func HashDataset(ds *dataset.Dataset) (string, error) {
	if ds == nil {
		ds = &dataset.Dataset{}
	}
	data, err := json.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("hash dataset: %w", err)
	}
	return cache.Hash(data), nil
}
