package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes the result as indented JSON. Amounts are exact
// decimal strings, not rounded.
type JSONFormatter struct {
	Indent string
}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{Indent: "  "}
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render encodes the single populated result
func (f *JSONFormatter) Render(w io.Writer, result *Result) error {
	if err := result.validate(); err != nil {
		return err
	}

	var v interface{}
	switch {
	case result.Task != nil:
		v = result.Task
	case result.Process != nil:
		v = result.Process
	default:
		v = result.Material
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	return enc.Encode(v)
}
