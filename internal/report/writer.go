package report

import (
	"io"
	"sort"

	"github.com/jsrecon/jsrecon/internal/model"
)

// Writer outputs a scan result in one format.
//
// Design decision: an interface rather than format flags on one type,
// so the same destination handling works for files, stdout, and tests,
// and a MultiWriter can fan out to several formats at once.
type Writer interface {
	// Write outputs the result to the configured destination. Returns
	// the number of bytes written and any error encountered.
	Write(result *model.ScanResult) (int, error)
}

// MultiWriter writes to multiple Writers, stopping on the first error.
// Our Writer takes scan results, not bytes, so io.MultiWriter cannot
// serve here.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers. Returns the
// total bytes written.
func (m *MultiWriter) Write(result *model.ScanResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// orderedCategories returns the result's categories in catalog order,
// with any custom categories appended alphabetically.
func orderedCategories(result *model.ScanResult) []model.Category {
	builtin := make(map[model.Category]bool, len(model.CategoryOrder))
	var ordered []model.Category
	for _, cat := range model.CategoryOrder {
		builtin[cat] = true
		if len(result.Results[cat]) > 0 {
			ordered = append(ordered, cat)
		}
	}

	var extras []model.Category
	for cat, findings := range result.Results {
		if !builtin[cat] && len(findings) > 0 {
			extras = append(extras, cat)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })

	return append(ordered, extras...)
}

// sortedValues returns a category's finding values alphabetically, for
// stable report output.
func sortedValues(findings model.FindingMap) []string {
	values := make([]string, 0, len(findings))
	for v := range findings {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
