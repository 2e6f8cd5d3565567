package model

import "fmt"

// MainDocumentSource is the identifier used for the page's own HTML.
const MainDocumentSource = "Main Document"

// ContentSource is one text buffer gathered from the target page.
// The Source identifier discriminates the main document, a numbered
// inline script, or the absolute URL of an external script.
//
// Sources are created per scan and owned by the scan engine for the
// duration of the scan; the decoded text is retained in the result's
// content map so that reports can show context snippets.
type ContentSource struct {
	// Source is the logical origin of the buffer.
	Source string `json:"source"`

	// Code is the raw (not yet decoded) text content.
	Code string `json:"-"`

	// TooLarge marks a source whose body exceeded the size policy.
	// The gatherer sets this flag; the engine honors it and contributes
	// neither findings nor a content-map entry for such a source.
	TooLarge bool `json:"too_large,omitempty"`
}

// InlineScriptSource returns the identifier for the n-th inline script.
// Numbering is 1-based to match what users see in reports.
func InlineScriptSource(n int) string {
	return fmt.Sprintf("Inline Script #%d", n)
}
