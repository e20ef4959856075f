package report

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// JSONWriter renders results as indented JSON.
type JSONWriter struct {
	output io.Writer
}

// Write renders r.
func (w *JSONWriter) Write(r *Report) error {
	enc := json.NewEncoder(w.output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(r)); err != nil {
		return eris.Wrap(err, "report: encode json")
	}
	return nil
}
