package gather

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/jsrecon/jsrecon/internal/fetch"
	"github.com/jsrecon/jsrecon/internal/model"
)

// ScriptCache memoizes external script bodies keyed by URL, so scripts
// shared across targets in one batch run are fetched once.
type ScriptCache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Gatherer fetches a target page and assembles the content sources a
// scan runs over: the document itself, its inline scripts, and the
// bodies of its external scripts.
type Gatherer struct {
	// fetcher performs all HTTP traffic under the throttling policy.
	fetcher *fetch.Fetcher

	// exclusions filters external script URLs.
	exclusions *ExclusionList

	// cache, when set, short-circuits repeat fetches of the same
	// script URL.
	cache ScriptCache

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Gatherer.
type Option func(*Gatherer)

// WithExclusions sets the excluded-domain pattern list.
func WithExclusions(list *ExclusionList) Option {
	return func(g *Gatherer) {
		g.exclusions = list
	}
}

// WithScriptCache sets the script-body cache.
func WithScriptCache(c ScriptCache) Option {
	return func(g *Gatherer) {
		g.cache = c
	}
}

// WithGathererLogger sets a custom logger.
func WithGathererLogger(logger *slog.Logger) Option {
	return func(g *Gatherer) {
		g.logger = logger
	}
}

// NewGatherer creates a Gatherer around the given fetcher.
func NewGatherer(fetcher *fetch.Fetcher, opts ...Option) *Gatherer {
	g := &Gatherer{
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Gather fetches target and returns its content sources in discovery
// order: main document first, then inline scripts, then external
// scripts. The page fetch failing is the one hard error here; from
// that point on, individual script failures degrade to absent or
// flagged sources.
func (g *Gatherer) Gather(ctx context.Context, target string) ([]model.ContentSource, error) {
	base, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse target URL: %w", err)
	}

	page := g.fetcher.Get(ctx, target)
	if page.StatusCode == 0 {
		return nil, fmt.Errorf("fetch %s: no response", target)
	}
	if !page.OK {
		return nil, fmt.Errorf("fetch %s: status %d", target, page.StatusCode)
	}

	sources := []model.ContentSource{{
		Source:   model.MainDocumentSource,
		Code:     page.Body,
		TooLarge: page.TooLarge,
	}}

	inline, external := g.extractScripts(base, page.Body)
	for i, code := range inline {
		sources = append(sources, model.ContentSource{
			Source: model.InlineScriptSource(i + 1),
			Code:   code,
		})
	}

	if len(external) == 0 {
		return sources, nil
	}

	// Fetch only the URLs the cache cannot answer.
	var misses []string
	for _, scriptURL := range external {
		if g.cache == nil {
			misses = append(misses, scriptURL)
			continue
		}
		if _, ok := g.cache.Get(scriptURL); !ok {
			misses = append(misses, scriptURL)
		}
	}

	var results map[string]fetch.Result
	if len(misses) > 0 {
		results = g.fetcher.GetAll(ctx, misses)
	}

	for _, scriptURL := range external {
		if g.cache != nil {
			if body, ok := g.cache.Get(scriptURL); ok {
				sources = append(sources, model.ContentSource{Source: scriptURL, Code: body})
				continue
			}
		}

		res, ok := results[scriptURL]
		if !ok || res.StatusCode == 0 {
			g.logger.Debug("external script unreachable", "url", scriptURL)
			continue
		}
		if !res.OK {
			g.logger.Debug("external script fetch failed", "url", scriptURL, "status", res.StatusCode)
			continue
		}
		if g.cache != nil && !res.TooLarge {
			g.cache.Set(scriptURL, res.Body)
		}
		sources = append(sources, model.ContentSource{
			Source:   scriptURL,
			Code:     res.Body,
			TooLarge: res.TooLarge,
		})
	}

	return sources, nil
}

// extractScripts walks the parsed document and splits script elements
// into inline bodies and resolved external URLs, both in document
// order. Duplicate and excluded URLs are dropped.
func (g *Gatherer) extractScripts(base *url.URL, body string) (inline []string, external []string) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		// html.Parse recovers from almost anything; a hard failure
		// means the page is not HTML at all, and the main document
		// source already carries its text.
		g.logger.Debug("html parse failed", "error", err)
		return nil, nil
	}

	seen := make(map[string]bool)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			if src := attrValue(n, "src"); src != "" {
				if abs := g.resolveScriptURL(base, src); abs != "" && !seen[abs] {
					seen[abs] = true
					external = append(external, abs)
				}
			} else if code := textContent(n); strings.TrimSpace(code) != "" {
				inline = append(inline, code)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return inline, external
}

// resolveScriptURL turns a src attribute into an absolute URL, or ""
// when the reference is unusable or excluded.
func (g *Gatherer) resolveScriptURL(base *url.URL, src string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	ref, err := url.Parse(src)
	if err != nil {
		g.logger.Debug("unparsable script src", "src", src)
		return ""
	}

	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}

	if g.exclusions.Excluded(abs.String()) {
		g.logger.Debug("script excluded by domain pattern", "url", abs.String())
		return ""
	}
	return abs.String()
}

// attrValue returns the named attribute of n, or "".
func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// textContent concatenates the text children of n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
