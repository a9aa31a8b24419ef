// Package jsonx contains safe accessors for loosely typed JSON values.
//
// Recipes are handled as generic JSON trees (map[string]any, []any, ...)
// because nimbus-cli only reads a handful of fields and must forward
// everything else verbatim. The accessors in this package turn a missing
// or mistyped field into a *FieldError instead of a nil dereference.
package jsonx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nimbus-devtools/nimbus-cli/internal/errorsx"
	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
)

// FieldError is the error returned when a field is missing or has the wrong type.
type FieldError struct {
	// Field is the name of the field.
	Field string

	// Expected is the expected JSON type (e.g., "string").
	Expected string

	// Err is either errorsx.ErrMissingField or errorsx.ErrWrongType.
	Err error
}

// Error implements error.
func (e *FieldError) Error() string {
	if e.Err == errorsx.ErrMissingField {
		return fmt.Sprintf("missing field %q: expected %s", e.Field, e.Expected)
	}
	return fmt.Sprintf("wrong type for field %q: expected %s", e.Field, e.Expected)
}

// Unwrap allows using errors.Is with the error kinds.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Parse parses a JSON document. Numbers are kept as json.Number so that
// writing the value back does not alter them.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("jsonx: trailing data after JSON value")
	}
	return value, nil
}

// ParseLenient is like [Parse] but also accepts comments and trailing
// commas, which people tend to leave in hand-edited files.
func ParseLenient(data []byte) (any, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, err
	}
	return Parse(std)
}

// AsObject returns v as a JSON object.
func AsObject(v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(errorsx.ErrWrongType, "expected a JSON object, found %s", TypeName(v))
	}
	return obj, nil
}

func get(v any, field, expected string) (any, error) {
	obj, err := AsObject(v)
	if err != nil {
		return nil, err
	}
	value, found := obj[field]
	if !found || value == nil {
		return nil, &FieldError{Field: field, Expected: expected, Err: errorsx.ErrMissingField}
	}
	return value, nil
}

// GetStr returns the string field of the given object.
func GetStr(v any, field string) (string, error) {
	value, err := get(v, field, "string")
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", &FieldError{Field: field, Expected: "string", Err: errorsx.ErrWrongType}
	}
	return s, nil
}

// GetArray returns the array field of the given object.
func GetArray(v any, field string) ([]any, error) {
	value, err := get(v, field, "array")
	if err != nil {
		return nil, err
	}
	array, ok := value.([]any)
	if !ok {
		return nil, &FieldError{Field: field, Expected: "array", Err: errorsx.ErrWrongType}
	}
	return array, nil
}

// GetObject returns the object field of the given object.
func GetObject(v any, field string) (map[string]any, error) {
	value, err := get(v, field, "object")
	if err != nil {
		return nil, err
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, &FieldError{Field: field, Expected: "object", Err: errorsx.ErrWrongType}
	}
	return obj, nil
}

// DataList returns the `data` array of a list document.
func DataList(doc any) ([]any, error) {
	return GetArray(doc, "data")
}

// DeepCopy returns a copy of v sharing no objects or arrays with it.
func DeepCopy(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, entry := range value {
			out[key] = DeepCopy(entry)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for idx, entry := range value {
			out[idx] = DeepCopy(entry)
		}
		return out
	default:
		return value
	}
}

// TypeName returns the JSON type name of v.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
