package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats data as JSON. Compact output writes each value
// on a single line, which keeps a stream of snapshots line-delimited.
type JSONFormatter struct {
	Compact bool
}

// Format writes data followed by a newline. Routes and ids are written
// verbatim, without HTML escaping.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !f.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}
