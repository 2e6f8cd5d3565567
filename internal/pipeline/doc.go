// Package pipeline orchestrates a scan as a sequence of steps that
// each enrich a shared ScanResult: gather the page, run the engine,
// probe npm for package findings, persist the outcome.
//
// Steps are small and independently testable; the pipeline owns the
// ordering, error policy, and cancellation checks between steps. A
// batch processor runs the same pipeline over multiple targets with a
// bounded degree of parallelism.
package pipeline
