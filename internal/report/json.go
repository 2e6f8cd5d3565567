package report

import (
	"encoding/json"
	"io"

	"github.com/jsrecon/jsrecon/internal/model"
)

// JSONWriter outputs the full result as indented JSON for downstream
// tooling.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *JSONWriter) Write(result *model.ScanResult) (int, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
