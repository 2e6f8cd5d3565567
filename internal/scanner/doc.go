// Package scanner implements the scan engine: it runs the compiled rule
// catalog over gathered content sources and aggregates validated matches
// into a deduplicated findings map with source-location metadata.
//
// The engine is defensive by construction. Regex execution is bounded by
// a wall-clock budget and degrades to partial matches; malformed rules
// are skipped; category validators (domain scoping, entropy gating, path
// sanity) discard low-quality matches before they become findings.
// Cancellation is cooperative: the engine checks the context between
// sources, never mid-source.
package scanner
