package model

import "time"

// Category is a named bucket of related findings.
type Category string

// Built-in finding categories. The order of CategoryOrder is the catalog
// processing order and therefore user-observable in occurrence ordering.
const (
	CategorySubdomains        Category = "Subdomains"
	CategoryEndpoints         Category = "Endpoints"
	CategorySecrets           Category = "Potential Secrets"
	CategorySourceMaps        Category = "Source Maps"
	CategoryJSLibraries       Category = "JS Libraries"
	CategoryDOMXSSSinks       Category = "DOM XSS Sinks"
	CategoryNPMPackages       Category = "NPM Packages"
	CategoryInterestingParams Category = "Interesting Parameters"
)

// CategoryOrder lists all built-in categories in processing order.
var CategoryOrder = []Category{
	CategorySubdomains,
	CategoryEndpoints,
	CategorySecrets,
	CategorySourceMaps,
	CategoryJSLibraries,
	CategoryDOMXSSSinks,
	CategoryNPMPackages,
	CategoryInterestingParams,
}

// Occurrence is one concrete location where a finding's value was matched.
// CharIndex is a 0-based offset into the decoded source text; Line and
// Column are 1-based and derived from the same decoded buffer.
type Occurrence struct {
	// Source is the identifier of the content source that matched.
	Source string `json:"source"`

	// RuleID identifies the rule that produced the match.
	RuleID string `json:"rule_id"`

	// CharIndex is the 0-based offset of the match in the decoded text.
	CharIndex int `json:"char_index"`

	// MatchLength is the length of the full match in bytes.
	MatchLength int `json:"match_length"`

	// Line is the 1-based line number of the match.
	Line int `json:"line"`

	// Column is the 1-based column number of the match.
	Column int `json:"column"`
}

// FindingMap maps a normalized (trimmed) matched value to the ordered
// list of its occurrences. Each distinct value appears exactly once as a
// key; occurrences accumulate under it in discovery order.
type FindingMap map[string][]Occurrence

// ScanResult is the complete output of one scan invocation.
//
// Design decision: the result is built fresh per scan and handed off
// as-is; nothing mutates it after Scan returns. This mirrors the
// single-pass ownership model of the engine and keeps persistence and
// rendering free of locking concerns.
type ScanResult struct {
	// Target is the URL that was scanned.
	Target string `json:"target"`

	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// Results maps each category to its findings.
	Results map[Category]FindingMap `json:"results"`

	// ContentMap retains the decoded text of every processed source so
	// consumers can show context snippets. Subject to the gatherer's
	// size policy: too-large sources are absent.
	ContentMap map[string]string `json:"content_map"`

	// MissingPackages lists NPM Package findings that do not resolve on
	// the public registry (a dependency-confusion signal). Populated by
	// the optional registry probe step.
	MissingPackages []string `json:"missing_packages,omitempty"`

	// Sources holds the gathered content sources during pipeline
	// execution. Excluded from JSON because the decoded text already
	// lives in ContentMap.
	Sources []ContentSource `json:"-"`

	// PerformedSteps records which pipeline steps ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error holds the first critical error encountered, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewScanResult creates an empty result for the given target.
func NewScanResult(target string) *ScanResult {
	return &ScanResult{
		Target:      target,
		DateScanned: time.Now(),
		Results:     make(map[Category]FindingMap),
		ContentMap:  make(map[string]string),
	}
}

// AddOccurrence records one validated match under (category, value),
// creating the finding entry on first sighting of the value.
func (r *ScanResult) AddOccurrence(category Category, value string, occ Occurrence) {
	findings, ok := r.Results[category]
	if !ok {
		findings = make(FindingMap)
		r.Results[category] = findings
	}
	findings[value] = append(findings[value], occ)
}

// FindingCount returns the number of distinct values in a category.
func (r *ScanResult) FindingCount(category Category) int {
	return len(r.Results[category])
}

// TotalFindings returns the number of distinct values across all categories.
func (r *ScanResult) TotalFindings() int {
	total := 0
	for _, findings := range r.Results {
		total += len(findings)
	}
	return total
}

// HasFindings reports whether any category produced at least one finding.
func (r *ScanResult) HasFindings() bool {
	return r.TotalFindings() > 0
}
