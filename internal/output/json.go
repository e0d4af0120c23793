package output

import (
	"encoding/json"
	"io"
)

// JSONWriter writes pretty-printed JSON output.
type JSONWriter struct {
	w io.Writer
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

// Write outputs data as an indented JSON document.
func (w *JSONWriter) Write(data any) error {
	enc := json.NewEncoder(w.w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
