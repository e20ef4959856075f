package report

import (
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// YAMLWriter renders results as YAML.
type YAMLWriter struct {
	output io.Writer
}

// Write renders r.
func (w *YAMLWriter) Write(r *Report) error {
	enc := yaml.NewEncoder(w.output)
	enc.SetIndent(2)
	if err := enc.Encode(toDocument(r)); err != nil {
		return eris.Wrap(err, "report: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "report: close yaml encoder")
	}
	return nil
}
