// Package rules translates externally supplied rule definitions into the
// compiled rule sets the scan engine consumes.
//
// Rules travel as serializable descriptors (regex source, flags, capture
// group, entropy threshold) and are compiled into executable patterns
// only inside the process that runs them. A malformed descriptor is
// skipped, never fatal: the catalog degrades to whatever subset of rules
// compiles cleanly.
//
// The built-in categories (subdomains, endpoints, source maps, libraries,
// DOM XSS sinks, npm package references) are fixed pattern tables that do
// not depend on user configuration; the "Potential Secrets" and
// "Interesting Parameters" categories are built from configuration.
package rules
