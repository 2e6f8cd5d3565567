package config

import "errors"

// Configuration validation errors returned by Config.Validate().
// Sentinel errors keep errors.Is() usable for callers while still
// carrying a human-readable message.
var (
	// ErrNoTarget is returned when no target URL is specified.
	ErrNoTarget = errors.New("no target specified: provide at least one URL")

	// ErrInvalidTimeout is returned when the HTTP timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the fetch concurrency cap is
	// not positive. A cap of zero would mean no requests ever complete.
	ErrInvalidConcurrency = errors.New("invalid max concurrent fetches: must be positive")

	// ErrInvalidRequestDelay is returned when the inter-window delay is
	// negative. Use 0 for no pacing.
	ErrInvalidRequestDelay = errors.New("invalid request delay: must be non-negative")

	// ErrInvalidRegexTimeout is returned when the per-rule regex budget
	// is not positive.
	ErrInvalidRegexTimeout = errors.New("invalid regex timeout: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the body size cap is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidBatchSize is returned when the multi-target batch size is
	// not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")
)
