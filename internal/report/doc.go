// Package report renders scan results for humans and machines: a plain
// text summary for terminals, JSON for tooling, and Markdown for
// documentation and sharing.
package report
