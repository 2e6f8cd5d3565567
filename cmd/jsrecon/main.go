// Package main provides the entry point for the jsrecon CLI.
//
// jsrecon scans a web application's JavaScript attack surface: it
// gathers the page and its scripts, hunts for subdomains, endpoints,
// secrets, DOM XSS sinks and package references, and can reconstruct
// original source trees from exposed source maps.
//
// Usage:
//
//	jsrecon scan <url>...
//	jsrecon sourcemap <map-url>
//	jsrecon history <url>
//
// See --help for all available options.
package main

// main is the entry point for jsrecon.
func main() {
	Execute()
}
