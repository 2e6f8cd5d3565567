// Package gather collects the content sources for one scan: the target
// page's HTML, its inline scripts, and the bodies of its external
// scripts.
//
// External scripts are fetched through the throttled fetch orchestrator
// and can be excluded by configured domain patterns. Oversized bodies
// are kept as flagged placeholders rather than scanned, so the engine
// honors the size policy without re-deriving it.
package gather
