package sourcemap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jsrecon/jsrecon/internal/fetch"
)

// ErrorLogFile is the sentinel path under which reconstruction-level
// problems are reported inside the returned tree.
const ErrorLogFile = "jsrecon.buddy.error.log"

// sourceMap is the subset of the source-map format reconstruction
// needs. Mappings are irrelevant here; only the file list and any
// inline content matter.
type sourceMap struct {
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent"`
	SourceRoot     string    `json:"sourceRoot"`
}

// Reconstructor rebuilds original file trees from source maps.
type Reconstructor struct {
	// fetcher performs map and source-file fetches under throttling.
	fetcher *fetch.Fetcher

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Reconstructor.
type Option func(*Reconstructor)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconstructor) {
		r.logger = logger
	}
}

// NewReconstructor creates a Reconstructor around the given fetcher.
func NewReconstructor(fetcher *fetch.Fetcher, opts ...Option) *Reconstructor {
	r := &Reconstructor{
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconstruct fetches the source map at mapURL and returns the original
// tree as path -> text. The map itself being unreachable or malformed
// produces a tree holding only the sentinel error log; per-file fetch
// failures produce placeholder entries for those paths only.
func (r *Reconstructor) Reconstruct(ctx context.Context, mapURL string) map[string]string {
	res := r.fetcher.Get(ctx, mapURL)
	if !res.OK {
		r.logger.Debug("source map unreachable", "url", mapURL, "status", res.StatusCode)
		return map[string]string{
			ErrorLogFile: fmt.Sprintf("Source map not found: %s", mapURL),
		}
	}

	var sm sourceMap
	if err := json.Unmarshal([]byte(res.Body), &sm); err != nil {
		return map[string]string{
			ErrorLogFile: fmt.Sprintf("Source map at %s is not valid JSON: %v", mapURL, err),
		}
	}
	if sm.Sources == nil {
		return map[string]string{
			ErrorLogFile: fmt.Sprintf("Source map at %s does not contain a 'sources' array", mapURL),
		}
	}

	tree := make(map[string]string, len(sm.Sources))

	// First pass: take inline content, collect the rest for fetching.
	type pending struct {
		path string
		url  string
	}
	var remote []pending
	for i, src := range sm.Sources {
		path := displayPath(sm.SourceRoot, src)
		if i < len(sm.SourcesContent) && sm.SourcesContent[i] != nil {
			tree[path] = *sm.SourcesContent[i]
			continue
		}
		resolved, ok := resolveSource(mapURL, sm.SourceRoot, src)
		if !ok {
			tree[path] = fmt.Sprintf("Skipping unresolvable source file %s", src)
			continue
		}
		remote = append(remote, pending{path: path, url: resolved})
	}

	if len(remote) > 0 {
		urls := make([]string, 0, len(remote))
		for _, p := range remote {
			urls = append(urls, p.url)
		}
		results := r.fetcher.GetAll(ctx, urls)
		for _, p := range remote {
			file := results[p.url]
			if !file.OK {
				tree[p.path] = fmt.Sprintf("Skipping missing source file %s. Status: %d", p.url, file.StatusCode)
				continue
			}
			tree[p.path] = file.Body
		}
	}

	return tree
}

// displayPath joins the map's sourceRoot with a source path for use as
// the tree key, keeping webpack-style prefixes intact so the tree
// mirrors what the map declares.
func displayPath(root, src string) string {
	if root == "" {
		return src
	}
	return strings.TrimSuffix(root, "/") + "/" + strings.TrimPrefix(src, "/")
}

// resolveSource turns a source path into a fetchable absolute URL
// relative to the map's own location. Scheme-prefixed entries such as
// webpack:// are not fetchable.
func resolveSource(mapURL, root, src string) (string, bool) {
	full := src
	if root != "" {
		full = strings.TrimSuffix(root, "/") + "/" + strings.TrimPrefix(src, "/")
	}

	ref, err := url.Parse(full)
	if err != nil {
		return "", false
	}
	if ref.Scheme != "" && ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}

	base, err := url.Parse(mapURL)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	return abs.String(), true
}
