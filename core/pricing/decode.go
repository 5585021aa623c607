package pricing

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"jewel-pricing/internal/errors"
)

// DecodeTask parses a task payload. Type mismatches (a string where a
// number belongs, an object where an array belongs) become TYPE_ERRORs.
func DecodeTask(data []byte) (*Task, error) {
	var t *Task
	if err := decode(data, &t); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.TypeErrorf("task data is required")
	}
	return t, nil
}

// DecodeProcess parses a single process payload
func DecodeProcess(data []byte) (*Process, error) {
	var p *Process
	if err := decode(data, &p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.TypeErrorf("process is required")
	}
	return p, nil
}

// DecodeMaterial parses a single material payload
func DecodeMaterial(data []byte) (*Material, error) {
	var m *Material
	if err := decode(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.TypeErrorf("material is required")
	}
	return m, nil
}

// DecodeSettings parses an admin settings object. null yields defaults.
func DecodeSettings(data []byte) (*AdminSettings, error) {
	var s *AdminSettings
	if err := decode(data, &s); err != nil {
		return nil, err
	}
	if s == nil {
		s = &AdminSettings{}
	}
	return s, nil
}

// ClassifyJSONError maps encoding/json failures onto domain error types
func ClassifyJSONError(err error) error {
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "value"
		}
		return errors.Wrapf(errors.TypeInvalidType, err,
			"%s must be %s, got %s", field, describeKind(typeErr.Type.Kind().String()), typeErr.Value)
	}
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.Wrapf(errors.TypeInput, err, "malformed JSON at offset %d", syntaxErr.Offset)
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.Wrap(errors.TypeInput, "empty or truncated JSON payload", err)
	}
	return errors.Wrap(errors.TypeInput, "invalid JSON payload", err)
}

func decode(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return ClassifyJSONError(err)
	}
	if dec.More() {
		return errors.New(errors.TypeInput, "unexpected data after JSON value")
	}
	return nil
}

func describeKind(kind string) string {
	switch kind {
	case "float64", "float32", "int", "int64":
		return "a number"
	case "string":
		return "a string"
	case "slice":
		return "an array"
	case "struct", "map", "ptr":
		return "an object"
	case "bool":
		return "a boolean"
	default:
		return fmt.Sprintf("a %s", kind)
	}
}
