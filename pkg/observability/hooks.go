// Package observability lets a program observe geomkit without geomkit
// depending on a metrics or tracing backend.
//
// Three event families are emitted: [PipelineHooks] around dataset reads,
// layouts and renders; [CacheHooks] for hits, misses and writes; and
// [HTTPHooks] from the API middleware. Every family defaults to a no-op.
// A main package swaps in its own implementations at startup:
//
//	observability.SetPipelineHooks(myMetrics)
//	observability.Register(observability.NewLogHooks(logger))
//
// Library code fetches the current hooks at the call site:
//
//	hooks := observability.Pipeline()
//	hooks.OnLayoutStart(ctx, chart, records)
//	scene, err := layout(...)
//	hooks.OnLayoutComplete(ctx, chart, scene.Len(), time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the chart pipeline. Source is a file
// path or URL; chart is the chart tag.
type PipelineHooks interface {
	OnReadComplete(ctx context.Context, source string, records int, duration time.Duration, err error)
	OnLayoutStart(ctx context.Context, chart string, records int)
	OnLayoutComplete(ctx context.Context, chart string, primitives int, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache events. KeyType is "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API. Route is the matched chi
// route pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, route string, err error)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnReadComplete(context.Context, string, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// registry is replaced wholesale on every change, so readers never lock.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var current atomic.Pointer[registry]

func init() { Reset() }

func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks replaces the pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks replaces the cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks replaces the HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Register installs h for every hook family it implements and reports
// whether it implemented any.
func Register(h any) bool {
	var found bool
	update(func(r *registry) {
		if p, ok := h.(PipelineHooks); ok {
			r.pipeline, found = p, true
		}
		if c, ok := h.(CacheHooks); ok {
			r.cache, found = c, true
		}
		if x, ok := h.(HTTPHooks); ok {
			r.http, found = x, true
		}
	})
	return found
}

func Pipeline() PipelineHooks { return current.Load().pipeline }
func Cache() CacheHooks       { return current.Load().cache }
func HTTP() HTTPHooks         { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
