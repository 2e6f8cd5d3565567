// Package log provides slog construction with secret redaction.
//
// A scanner whose whole purpose is to find credentials must not leak
// them into its own log stream. SecureHandler wraps any slog.Handler
// and masks attribute values whose key or shape looks like a secret
// before the record reaches the underlying handler.
package log
