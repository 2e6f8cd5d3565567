package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// TestFetcherGet tests single GET semantics.
func TestFetcherGet(t *testing.T) {
	t.Parallel()

	t.Run("successful fetch", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "jsrecon") {
				t.Errorf("unexpected User-Agent %q", ua)
			}
			_, _ = w.Write([]byte("console.log(1)"))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client())
		res := f.Get(context.Background(), srv.URL)
		if !res.OK || res.Body != "console.log(1)" || res.StatusCode != 200 {
			t.Errorf("res = %+v", res)
		}
	})

	t.Run("404 is data not error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		f := NewFetcher(srv.Client())
		res := f.Get(context.Background(), srv.URL)
		if res.OK {
			t.Error("OK = true for 404")
		}
		if res.StatusCode != 404 {
			t.Errorf("StatusCode = %d", res.StatusCode)
		}
	})

	t.Run("network failure yields zero result", func(t *testing.T) {
		t.Parallel()

		f := NewFetcher(&http.Client{Timeout: 200 * time.Millisecond})
		res := f.Get(context.Background(), "http://127.0.0.1:1/unreachable")
		if res.OK || res.StatusCode != 0 {
			t.Errorf("res = %+v", res)
		}
	})

	t.Run("oversized body is capped and flagged", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithMaxBodySize(10))
		res := f.Get(context.Background(), srv.URL)
		if !res.TooLarge {
			t.Error("TooLarge = false")
		}
		if len(res.Body) != 10 {
			t.Errorf("body length = %d, want 10", len(res.Body))
		}
	})
}

// TestFetcherProbes tests HEAD and status modes.
func TestFetcherProbes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/exists":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())

	if !f.Head(context.Background(), srv.URL+"/exists") {
		t.Error("Head(/exists) = false")
	}
	if f.Head(context.Background(), srv.URL+"/missing") {
		t.Error("Head(/missing) = true")
	}
	if got := f.Status(context.Background(), srv.URL+"/missing"); got != 404 {
		t.Errorf("Status(/missing) = %d", got)
	}
	if got := f.Status(context.Background(), "http://127.0.0.1:1/x"); got != 0 {
		t.Errorf("Status(unreachable) = %d", got)
	}
}

// TestFetcherThrottling tests the concurrency cap and window pacing.
func TestFetcherThrottling(t *testing.T) {
	t.Parallel()

	t.Run("concurrency never exceeds the cap", func(t *testing.T) {
		t.Parallel()

		var inflight, peak atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cur := inflight.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(30 * time.Millisecond)
			inflight.Add(-1)
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithMaxConcurrent(3), WithRequestDelay(10*time.Millisecond))

		urls := make([]string, 5)
		for i := range urls {
			urls[i] = srv.URL + "/" + string(rune('a'+i))
		}

		results := f.GetAll(context.Background(), urls)
		if len(results) != 5 {
			t.Fatalf("expected 5 results, got %d", len(results))
		}
		for url, res := range results {
			if !res.OK {
				t.Errorf("fetch of %s failed", url)
			}
		}
		if got := peak.Load(); got > 3 {
			t.Errorf("peak concurrency = %d, want <= 3", got)
		}
	})

	t.Run("delay separates windows", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		delay := 80 * time.Millisecond
		f := NewFetcher(srv.Client(), WithMaxConcurrent(3), WithRequestDelay(delay))

		urls := []string{srv.URL + "/1", srv.URL + "/2", srv.URL + "/3", srv.URL + "/4", srv.URL + "/5"}
		start := time.Now()
		_ = f.GetAll(context.Background(), urls)
		if elapsed := time.Since(start); elapsed < delay {
			t.Errorf("5 urls over cap 3 finished in %v, want >= %v", elapsed, delay)
		}
	})

	t.Run("cancellation stops new windows", func(t *testing.T) {
		t.Parallel()

		var served atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			served.Add(1)
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := NewFetcher(srv.Client(), WithMaxConcurrent(2))
		results := f.GetAll(ctx, []string{srv.URL + "/1", srv.URL + "/2", srv.URL + "/3"})
		if len(results) != 0 {
			t.Errorf("expected no results after pre-cancel, got %d", len(results))
		}
		if served.Load() != 0 {
			t.Errorf("server saw %d requests after pre-cancel", served.Load())
		}
	})

	t.Run("probe batch", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/gone" {
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithRequestDelay(0))
		results := f.HeadAll(context.Background(), []string{srv.URL + "/ok", srv.URL + "/gone"})
		if !results[srv.URL+"/ok"] || results[srv.URL+"/gone"] {
			t.Errorf("results = %v", results)
		}
	})
}
