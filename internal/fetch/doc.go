// Package fetch provides the throttled fetch orchestrator used by the
// script gatherer and the source-map reconstructor.
//
// The orchestrator bounds concurrent outbound requests to a fixed cap
// and inserts a pacing delay between request windows: a windowed rate
// limiter, not a token bucket. Individual request failures resolve to
// sentinel values (empty text, false, status 0) rather than errors, so
// batch operations always complete with whatever subset succeeded.
package fetch
