package httputil

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/geomkit/pkg/errors"
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		retryable bool
		attempts  int
		wantCalls int32
		wantErr   bool
	}{
		{"success first try", 0, true, 3, 1, false},
		{"success after retries", 2, true, 3, 3, false},
		{"exhausted", 5, true, 3, 3, true},
		{"permanent error", 5, false, 3, 1, true},
		{"zero attempts runs once", 5, true, 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				n := atomic.AddInt32(&calls, 1)
				if int(n) <= tt.failures {
					if tt.retryable {
						return &RetryableError{stderrors.New("transient")}
					}
					return stderrors.New("permanent")
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			var re *RetryableError
			if stderrors.As(err, &re) {
				t.Error("returned error should not be wrapped as retryable")
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{stderrors.New("transient")}
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func testFetcher() *Fetcher {
	f := NewFetcher()
	f.Delay = time.Millisecond
	return f
}

func TestFetcherGet(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data.json":
			if r.Header.Get("User-Agent") == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`[{"name":"a","value":1}]`))
		case "/flaky":
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("ok"))
		case "/big":
			_, _ = w.Write(make([]byte, 64))
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := testFetcher()
	ctx := context.Background()

	data, err := f.Get(ctx, srv.URL+"/data.json")
	if err != nil || string(data) != `[{"name":"a","value":1}]` {
		t.Fatalf("Get = %q, %v", data, err)
	}

	data, err = f.Get(ctx, srv.URL+"/flaky")
	if err != nil || string(data) != "ok" || calls != 3 {
		t.Errorf("flaky Get = %q, %v after %d calls", data, err, calls)
	}

	if _, err := f.Get(ctx, srv.URL+"/missing"); errors.GetCode(err) != errors.ErrCodeNotFound {
		t.Errorf("missing err = %v", err)
	}
	if _, err := f.Get(ctx, srv.URL+"/forbidden"); errors.GetCode(err) != errors.ErrCodeNetwork {
		t.Errorf("forbidden err = %v", err)
	}

	f.MaxBytes = 32
	if _, err := f.Get(ctx, srv.URL+"/big"); errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Errorf("oversized err = %v", err)
	}
}

func TestFetcherRejectsScheme(t *testing.T) {
	if _, err := testFetcher().Get(context.Background(), "ftp://example.com/data.csv"); err == nil {
		t.Error("expected error for ftp URL")
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/a.csv": true,
		"http://localhost/a.json":   true,
		"data/a.csv":                false,
		"/abs/path.json":            false,
		"ftp://host/a.csv":          false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}
