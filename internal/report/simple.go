package report

import (
	"fmt"
	"io"

	"github.com/jsrecon/jsrecon/internal/model"
)

// SimpleWriter outputs a human-readable text summary for terminals.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given
// writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *SimpleWriter) Write(result *model.ScanResult) (int, error) {
	var total int

	n, err := fmt.Fprintf(w.output, "Scan of %s (%s)\n", result.Target, result.DateScanned.Format("2006-01-02 15:04:05"))
	total += n
	if err != nil {
		return total, err
	}

	if result.ErrorMessage != "" {
		n, err = fmt.Fprintf(w.output, "Error: %s\n", result.ErrorMessage)
		total += n
		if err != nil {
			return total, err
		}
	}

	if !result.HasFindings() {
		n, err = fmt.Fprintln(w.output, "No findings.")
		return total + n, err
	}

	for _, cat := range orderedCategories(result) {
		findings := result.Results[cat]
		n, err = fmt.Fprintf(w.output, "\n%s (%d)\n", cat, len(findings))
		total += n
		if err != nil {
			return total, err
		}

		for _, value := range sortedValues(findings) {
			occs := findings[value]
			first := occs[0]
			n, err = fmt.Fprintf(w.output, "  %s  (%d occurrence(s), first at %s:%d:%d)\n",
				value, len(occs), first.Source, first.Line, first.Column)
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	if len(result.MissingPackages) > 0 {
		n, err = fmt.Fprintf(w.output, "\nPackages missing from the public registry: %d\n", len(result.MissingPackages))
		total += n
		if err != nil {
			return total, err
		}
		for _, pkg := range result.MissingPackages {
			n, err = fmt.Fprintf(w.output, "  %s\n", pkg)
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	return total, nil
}
