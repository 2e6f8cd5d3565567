package rules

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/jsrecon/jsrecon/internal/model"
)

// Catalog is the compiled rule set for one scan invocation, organized by
// category in a stable processing order. The engine iterates categories
// and rules in catalog order, which makes occurrence ordering in results
// deterministic and user-observable.
type Catalog struct {
	// order is the category iteration order.
	order []model.Category

	// rules maps each category to its compiled rules. A category may be
	// present with zero rules (e.g. Interesting Parameters with an empty
	// parameter list) — a degenerate-but-valid "nothing to match" state.
	rules map[model.Category][]Rule
}

// CatalogOption configures catalog construction.
type CatalogOption func(*catalogConfig)

type catalogConfig struct {
	secretRules       []Descriptor
	interestingParams []string
	excludedRuleIDs   map[string]bool
	extraCategories   []CategoryRules
	logger            *slog.Logger
}

// WithSecretRules appends user-supplied secret rule descriptors to the
// built-in set.
func WithSecretRules(descs []Descriptor) CatalogOption {
	return func(c *catalogConfig) {
		c.secretRules = append(c.secretRules, descs...)
	}
}

// WithInterestingParams sets the parameter names for the Interesting
// Parameters category. An empty list leaves the category with no rules.
func WithInterestingParams(names []string) CatalogOption {
	return func(c *catalogConfig) {
		c.interestingParams = names
	}
}

// WithExcludedRuleIDs disables rules by ID across all categories.
func WithExcludedRuleIDs(ids []string) CatalogOption {
	return func(c *catalogConfig) {
		for _, id := range ids {
			c.excludedRuleIDs[id] = true
		}
	}
}

// WithCustomCategories appends rule sets loaded from a rule file. Rules
// for a known category are appended after the built-in rules; unknown
// categories are appended after all built-in categories.
func WithCustomCategories(cats []CategoryRules) CatalogOption {
	return func(c *catalogConfig) {
		c.extraCategories = append(c.extraCategories, cats...)
	}
}

// WithCatalogLogger sets the logger used to report skipped rules.
func WithCatalogLogger(logger *slog.Logger) CatalogOption {
	return func(c *catalogConfig) {
		c.logger = logger
	}
}

// NewCatalog compiles the full rule catalog: fixed built-in categories,
// the configurable secret rules, and the interesting-parameters rule
// derived from configuration. Descriptors that fail to compile are
// logged at debug level and skipped; a bad rule never aborts the
// catalog.
func NewCatalog(opts ...CatalogOption) *Catalog {
	cfg := &catalogConfig{
		secretRules:     DefaultSecretRules(),
		excludedRuleIDs: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	cat := &Catalog{rules: make(map[model.Category][]Rule)}

	for _, category := range model.CategoryOrder {
		var descs []Descriptor
		switch category {
		case model.CategorySecrets:
			descs = cfg.secretRules
		case model.CategoryInterestingParams:
			if d, ok := interestingParamsDescriptor(cfg.interestingParams); ok {
				descs = []Descriptor{d}
			}
		default:
			descs = builtinRules[category]
		}
		cat.add(category, compileAll(descs, cfg, category == model.CategorySecrets))
	}

	for _, extra := range cfg.extraCategories {
		cat.add(extra.Category, compileAll(extra.Rules, cfg, extra.Category == model.CategorySecrets))
	}

	return cat
}

// add registers compiled rules under a category, keeping first-seen
// category order stable.
func (c *Catalog) add(category model.Category, rs []Rule) {
	if _, seen := c.rules[category]; !seen {
		c.order = append(c.order, category)
		c.rules[category] = nil
	}
	c.rules[category] = append(c.rules[category], rs...)
}

// Categories returns the category iteration order.
func (c *Catalog) Categories() []model.Category {
	return c.order
}

// Rules returns the compiled rules for a category, in catalog order.
func (c *Catalog) Rules(category model.Category) []Rule {
	return c.rules[category]
}

// RuleCount returns the total number of compiled rules.
func (c *Catalog) RuleCount() int {
	n := 0
	for _, rs := range c.rules {
		n += len(rs)
	}
	return n
}

// compileAll compiles descriptors, dropping excluded IDs and compile
// failures. Secret rules compile case-insensitive regardless of their
// own flags: token prefixes show up in either case in minified bundles.
func compileAll(descs []Descriptor, cfg *catalogConfig, insensitive bool) []Rule {
	out := make([]Rule, 0, len(descs))
	for _, d := range descs {
		if cfg.excludedRuleIDs[d.ID] {
			continue
		}
		if insensitive {
			d = d.withFlag('i')
		}
		rule, err := d.Compile()
		if err != nil {
			cfg.logger.Debug("skipping rule", "rule", d.ID, "error", err)
			continue
		}
		out = append(out, rule)
	}
	return out
}

// interestingParamsDescriptor builds the single alternation rule for the
// configured parameter names: a quote or query delimiter, the name, then
// an assignment character. Returns ok=false when no names are configured.
func interestingParamsDescriptor(names []string) (Descriptor, bool) {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(name))
	}
	if len(quoted) == 0 {
		return Descriptor{}, false
	}

	return Descriptor{
		ID:     "interesting_parameter",
		Source: `[?&"'](` + strings.Join(quoted, "|") + `)["']?\s*[:=]`,
		Flags:  "i",
		Group:  1,
	}, true
}
