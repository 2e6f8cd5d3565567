package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Default throttling constants. These bound how aggressively the scanner
// hits the target origin; they are tunable, not negotiated at runtime.
const (
	// DefaultMaxConcurrent is the maximum number of in-flight requests.
	DefaultMaxConcurrent = 3

	// DefaultRequestDelay is the pause between request windows.
	DefaultRequestDelay = 100 * time.Millisecond

	// DefaultMaxBodySize limits how much of a response body is read.
	// 5MB covers real-world bundles while preventing memory exhaustion
	// from adversarial responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent identifies the scanner in HTTP requests.
	DefaultUserAgent = "jsrecon/1.0 (+https://github.com/jsrecon/jsrecon)"
)

// Result is the outcome of one GET fetch. A failed request is data, not
// an error: OK is false and Body is empty.
type Result struct {
	// Body is the response text, capped at the configured body size.
	Body string

	// StatusCode is the HTTP status, or 0 when the request failed
	// before receiving a response.
	StatusCode int

	// OK reports whether the request returned a 2xx status.
	OK bool

	// TooLarge reports whether the body hit the size cap.
	TooLarge bool
}

// Fetcher executes batches of HTTP requests with bounded concurrency and
// inter-window pacing.
type Fetcher struct {
	// client performs the actual requests.
	client *http.Client

	// maxConcurrent caps in-flight requests per window.
	maxConcurrent int

	// delay is the pause between windows.
	delay time.Duration

	// maxBodySize caps how many bytes of a body are read.
	maxBodySize int64

	// userAgent is sent with every request.
	userAgent string

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxConcurrent sets the concurrency cap.
func WithMaxConcurrent(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxConcurrent = n
		}
	}
}

// WithRequestDelay sets the pause between request windows.
func WithRequestDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d >= 0 {
			f.delay = d
		}
	}
}

// WithMaxBodySize sets the response body size cap.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher around the given HTTP client.
//
// Design decision: the client is injected rather than constructed here
// so callers control timeouts, proxies, and redirect policy, and tests
// can point the fetcher at httptest servers.
func NewFetcher(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:        client,
		maxConcurrent: DefaultMaxConcurrent,
		delay:         DefaultRequestDelay,
		maxBodySize:   DefaultMaxBodySize,
		userAgent:     DefaultUserAgent,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get fetches one URL and returns its outcome. Network errors and
// non-2xx statuses produce a not-OK Result, never an error.
func (f *Fetcher) Get(ctx context.Context, url string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("fetch failed", "url", url, "error", err)
		return Result{}
	}
	defer resp.Body.Close()

	// Read one byte past the cap to detect truncation.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		f.logger.Debug("body read failed", "url", url, "error", err)
		return Result{StatusCode: resp.StatusCode}
	}

	tooLarge := int64(len(body)) > f.maxBodySize
	if tooLarge {
		body = body[:f.maxBodySize]
	}

	return Result{
		Body:       string(body),
		StatusCode: resp.StatusCode,
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		TooLarge:   tooLarge,
	}
}

// Head probes one URL with a HEAD request and reports reachability.
func (f *Fetcher) Head(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Status returns the HTTP status code for a GET of url without keeping
// the body, or 0 on request failure. Used for existence checks against
// registries where the status code is the answer.
func (f *Fetcher) Status(ctx context.Context, url string) int {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	return resp.StatusCode
}

// GetAll fetches every URL, at most maxConcurrent at a time, pausing
// for the configured delay between windows. The result map has an entry
// for every requested URL; failures appear as not-OK Results.
func (f *Fetcher) GetAll(ctx context.Context, urls []string) map[string]Result {
	results := make(map[string]Result, len(urls))
	var mu sync.Mutex

	f.inWindows(ctx, urls, func(ctx context.Context, url string) {
		res := f.Get(ctx, url)
		mu.Lock()
		results[url] = res
		mu.Unlock()
	})

	return results
}

// HeadAll probes every URL under the same throttling regime.
func (f *Fetcher) HeadAll(ctx context.Context, urls []string) map[string]bool {
	results := make(map[string]bool, len(urls))
	var mu sync.Mutex

	f.inWindows(ctx, urls, func(ctx context.Context, url string) {
		ok := f.Head(ctx, url)
		mu.Lock()
		results[url] = ok
		mu.Unlock()
	})

	return results
}

// inWindows runs fn over urls in windows of maxConcurrent, waiting for
// each window to drain and then pausing before the next. Cancellation
// stops scheduling new windows; requests already in flight run to
// completion under their own context.
func (f *Fetcher) inWindows(ctx context.Context, urls []string, fn func(ctx context.Context, url string)) {
	for start := 0; start < len(urls); start += f.maxConcurrent {
		if ctx.Err() != nil {
			return
		}

		end := start + f.maxConcurrent
		if end > len(urls) {
			end = len(urls)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, url := range urls[start:end] {
			g.Go(func() error {
				fn(gctx, url)
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // workers never return errors; failures are data

		if end < len(urls) && f.delay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(f.delay):
			}
		}
	}
}
