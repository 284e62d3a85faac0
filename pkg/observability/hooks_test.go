package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type countingCache struct {
	NoopCacheHooks
	mu   sync.Mutex
	hits int
}

func (c *countingCache) OnCacheHit(context.Context, string) {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

type pipelineOnly struct{ NoopPipelineHooks }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T", HTTP())
	}
}

func TestSetters(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	c := &countingCache{}
	SetCacheHooks(c)
	SetCacheHooks(nil)
	Cache().OnCacheHit(context.Background(), "layout")
	if c.hits != 1 {
		t.Errorf("hits = %d, want 1", c.hits)
	}

	p := &pipelineOnly{}
	SetPipelineHooks(p)
	if Pipeline() != p {
		t.Error("SetPipelineHooks did not install hooks")
	}
	if Cache() != c {
		t.Error("SetPipelineHooks replaced the cache hooks")
	}

	Reset()
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset should restore the no-op cache hooks")
	}
}

func TestRegister(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	if Register(struct{}{}) {
		t.Error("Register should report false for a value with no hooks")
	}

	p := &pipelineOnly{}
	if !Register(p) {
		t.Fatal("Register(pipelineOnly) = false")
	}
	if Pipeline() != p {
		t.Error("pipeline hooks not installed")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Register should leave families the value does not implement")
	}

	h := NewLogHooks(log.New(&bytes.Buffer{}))
	Register(h)
	if Pipeline() != h || Cache() != h || HTTP() != h {
		t.Error("LogHooks should be installed for every family")
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Cleanup(Reset)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetCacheHooks(&countingCache{})
		}()
		go func() {
			defer wg.Done()
			Cache().OnCacheMiss(context.Background(), "artifact")
		}()
	}
	wg.Wait()
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnReadComplete(ctx, "sales.csv", 12, time.Millisecond, nil)
	h.OnLayoutComplete(ctx, "treemap", 30, time.Millisecond, errors.New("boom"))
	h.OnCacheSet(ctx, "layout", 512)
	h.OnResponse(ctx, "POST", "/v1/layout/{chart}", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"read", "sales.csv", "layout failed", "boom", "cache set", "512", "response", "/v1/layout/{chart}"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.New(&buf))
	h.OnCacheHit(context.Background(), "layout")
	if buf.Len() != 0 {
		t.Errorf("info-level logger wrote %q", buf.String())
	}
}
