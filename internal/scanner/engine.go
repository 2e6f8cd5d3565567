package scanner

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jsrecon/jsrecon/internal/model"
	"github.com/jsrecon/jsrecon/internal/rules"
	"github.com/jsrecon/jsrecon/internal/textutil"
)

// ProgressFunc is invoked after each processed source with the number of
// sources handled so far and the total.
type ProgressFunc func(processed, total int)

// Engine converts content sources and a rule catalog into a ScanResult.
// An Engine is cheap to construct and holds only read-only configuration;
// every Scan call builds its own findings and content maps from scratch,
// so results never share mutable state across invocations.
type Engine struct {
	// catalog is the compiled rule set, iterated in catalog order.
	catalog *rules.Catalog

	// domain is the scoping context for subdomain validation, resolved
	// once for the whole scan.
	domain DomainInfo

	// matchTimeout is the wall-clock budget per regex per source.
	matchTimeout time.Duration

	// progress is the optional per-source progress callback.
	progress ProgressFunc

	// logger for structured logging.
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMatchTimeout sets the per-regex execution budget.
func WithMatchTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.matchTimeout = d
	}
}

// WithProgress sets the per-source progress callback.
func WithProgress(fn ProgressFunc) EngineOption {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithEngineLogger sets a custom logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a scan engine for one target. The hostname feeds
// subdomain scoping; pass an empty string when no host is known, which
// makes subdomain validation fail closed.
func NewEngine(catalog *rules.Catalog, hostname string, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:      catalog,
		domain:       ComputeDomainInfo(hostname),
		matchTimeout: DefaultMatchTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scan processes the sources in order and returns the accumulated
// result. Sources with empty content or the too-large flag contribute
// nothing. Cancellation is cooperative: the context is checked after
// each source, so at most one source's rule pass runs past a cancel.
// On cancellation the partial result is returned alongside ctx.Err().
func (e *Engine) Scan(ctx context.Context, target string, sources []model.ContentSource) (*model.ScanResult, error) {
	result := model.NewScanResult(target)

	for i, src := range sources {
		if src.Code != "" && !src.TooLarge {
			decoded := textutil.Decode(src.Code)
			result.ContentMap[src.Source] = decoded
			e.scanSource(result, src.Source, decoded)
		}

		if e.progress != nil {
			e.progress(i+1, len(sources))
		}

		// Yield point between sources.
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
	}

	return result, nil
}

// scanSource runs every catalog rule over one decoded buffer.
func (e *Engine) scanSource(result *model.ScanResult, source, decoded string) {
	for _, category := range e.catalog.Categories() {
		for _, rule := range e.catalog.Rules(category) {
			if rule.Pattern == nil {
				continue
			}

			matches, truncated := MatchAllBounded(rule.Pattern, decoded, e.matchTimeout)
			if truncated {
				e.logger.Warn("regex execution budget exceeded, keeping partial matches",
					"rule", rule.ID,
					"source", source,
					"matches", len(matches),
				)
			}

			for _, m := range matches {
				value := strings.TrimSpace(m.Group(rule.Group))
				if value == "" {
					// Covers both empty captures and capture groups
					// that did not participate in this match.
					continue
				}
				if !validateMatch(category, value, rule, e.domain) {
					continue
				}

				pos := textutil.PositionOf(decoded, m.Index)
				result.AddOccurrence(category, value, model.Occurrence{
					Source:      source,
					RuleID:      rule.ID,
					CharIndex:   m.Index,
					MatchLength: m.Length,
					Line:        pos.Line,
					Column:      pos.Column,
				})
			}
		}
	}
}
