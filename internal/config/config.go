package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These are tunable constants, not values
// negotiated at runtime; CLI flags override them per invocation.
const (
	// DefaultMaxConcurrentFetches caps in-flight outbound requests.
	// Three keeps the scanner polite toward the target origin while
	// still overlapping network latency across script fetches.
	DefaultMaxConcurrentFetches = 3

	// DefaultRequestDelay is the pause between fetch windows. 100ms
	// spreads bursts enough to stay under typical rate limits.
	DefaultRequestDelay = 100 * time.Millisecond

	// DefaultRegexTimeout is the wall-clock budget for running one rule
	// against one source. Pathological inputs yield partial matches
	// instead of stalling the scan.
	DefaultRegexTimeout = 500 * time.Millisecond

	// DefaultTimeout is the HTTP client timeout per request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize limits the response body size to read. 5MB
	// covers real-world bundles while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultBatchSize is the number of targets scanned concurrently
	// when multiple URLs are given.
	DefaultBatchSize = 2

	// DefaultCacheSize is the entry cap for the in-run script cache.
	DefaultCacheSize = 128

	// DefaultHistoryMaxAge is how long persisted scan records are kept.
	DefaultHistoryMaxAge = 30 * 24 * time.Hour

	// DefaultHistoryMaxRows caps the number of persisted scan records.
	DefaultHistoryMaxRows = 500

	// AppName is the application name used for XDG directory paths.
	AppName = "jsrecon"
)

// Config holds all configuration options for jsrecon.
//
// Design decision: a single flat struct instead of nested sub-structs.
// The option count is manageable, and flat fields map one-to-one onto
// CLI flags and settings-file keys.
type Config struct {
	// Targets is the list of URLs to scan.
	Targets []string

	// Timeout is the HTTP client timeout per request.
	Timeout time.Duration

	// MaxConcurrentFetches caps in-flight outbound requests.
	MaxConcurrentFetches int

	// RequestDelay is the pause between fetch windows.
	RequestDelay time.Duration

	// RegexTimeout is the wall-clock budget per rule per source.
	RegexTimeout time.Duration

	// MaxBodySize is the response body cap in bytes. 0 means default.
	MaxBodySize int64

	// BatchSize is the number of targets processed concurrently.
	BatchSize int

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// JSONReport selects JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown report output.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// ConfigFilePath is an explicit settings file path. When empty the
	// tool searches for .jsrecon in the current and home directories.
	ConfigFilePath string

	// Settings holds values loaded from the settings file.
	Settings *File

	// ExcludedDomains suppresses fetching of matching script URLs.
	// Entries are plain substrings or /regex/-delimited patterns.
	ExcludedDomains []string

	// ExcludedRuleIDs disables specific catalog rules.
	ExcludedRuleIDs []string

	// InterestingParams is the custom parameter-name list compiled into
	// the Interesting Parameters category.
	InterestingParams []string

	// RulesFile is an optional YAML file of custom secret rules that
	// extends the built-in secret set.
	RulesFile string

	// ProbeNPM enables the npm-registry existence probe for NPM Package
	// findings.
	ProbeNPM bool

	// DBDir is the directory for the SQLite history database. When
	// empty the XDG data directory is used.
	DBDir string

	// NoSave disables persisting scan results.
	NoSave bool

	// SourceMapOutDir is where the sourcemap command writes recovered
	// trees.
	SourceMapOutDir string
}

// NewConfig creates a Config with default values.
//
// Design decision: a constructor rather than zero values, because most
// defaults are non-zero and this documents them in one place.
func NewConfig() *Config {
	return &Config{
		Timeout:              DefaultTimeout,
		MaxConcurrentFetches: DefaultMaxConcurrentFetches,
		RequestDelay:         DefaultRequestDelay,
		RegexTimeout:         DefaultRegexTimeout,
		MaxBodySize:          DefaultMaxBodySize,
		BatchSize:            DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for jsrecon.
// On Linux: ~/.local/share/jsrecon
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for jsrecon.
// On Linux: ~/.config/jsrecon
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem
// found. Called once after flag parsing, before any scanning begins.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxConcurrentFetches <= 0 {
		return ErrInvalidConcurrency
	}
	if c.RequestDelay < 0 {
		return ErrInvalidRequestDelay
	}
	if c.RegexTimeout <= 0 {
		return ErrInvalidRegexTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
