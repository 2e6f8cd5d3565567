package scanner

import (
	"strings"

	"github.com/jsrecon/jsrecon/internal/model"
	"github.com/jsrecon/jsrecon/internal/rules"
	"github.com/jsrecon/jsrecon/internal/textutil"
)

// validateMatch applies the category-specific acceptance check to a
// trimmed, non-empty candidate value. Categories without a dedicated
// validator accept any non-empty value.
func validateMatch(category model.Category, value string, rule rules.Rule, domain DomainInfo) bool {
	switch category {
	case model.CategorySubdomains:
		// Only values scoped to the site under scan count as subdomain
		// findings; unrelated third-party hosts in the content are noise.
		return domain.InScope(value)

	case model.CategorySecrets:
		// Entropy gate: a threshold of 0 always passes because entropy
		// is never negative. Low-entropy matches (repeated characters,
		// short dictionary words) are the dominant false-positive class.
		return textutil.Entropy(value) >= rule.Entropy

	case model.CategoryEndpoints:
		// "/" and "//" style values are degenerate captures, not paths.
		return strings.Trim(value, "/") != ""

	default:
		return true
	}
}
