// Package model defines the core data structures shared across the scanner.
//
// The central types are ContentSource (a text buffer to be scanned),
// Occurrence (one concrete location where a value was matched), and
// ScanResult (the per-scan aggregation of findings and retained content).
//
// Design decision: model is a leaf package with no internal dependencies
// so that every other package (scanner, pipeline, cache, report) can share
// these types without import cycles.
package model
