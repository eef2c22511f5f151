package parse

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Shape declares the structure a completion response must have.
type Shape string

const (
	PlainText  Shape = "plain_text"
	JSONObject Shape = "json_object"
	JSONArray  Shape = "json_array"
)

// ValidShape reports whether s is one of the known shapes.
func ValidShape(s Shape) bool {
	switch s {
	case PlainText, JSONObject, JSONArray:
		return true
	}
	return false
}

// MalformedResponseError is returned when a response does not parse as its
// declared shape. Raw carries the untouched model output so callers can log
// or persist it.
type MalformedResponseError struct {
	Shape  Shape
	Raw    string
	Offset int64
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s response at offset %d: %v", e.Shape, e.Offset, e.Err)
	}
	return fmt.Sprintf("malformed %s response", e.Shape)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Parse validates raw model output against the expected shape.
//
// plain_text passes through trimmed. JSON shapes strip one leading and one
// trailing fence line (``` or ''') when present, then unmarshal. Only the
// object-vs-array distinction is enforced; field-level validation belongs to
// the consumer of the parsed value.
func Parse(raw string, shape Shape) (any, error) {
	switch shape {
	case PlainText, "":
		return strings.TrimSpace(raw), nil
	case JSONObject:
		var obj map[string]any
		if err := unmarshalStripped(raw, shape, &obj); err != nil {
			return nil, err
		}
		return obj, nil
	case JSONArray:
		var arr []any
		if err := unmarshalStripped(raw, shape, &arr); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unknown response shape %q", shape)
	}
}

func unmarshalStripped(raw string, shape Shape, v any) error {
	cleaned := StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &MalformedResponseError{
			Shape:  shape,
			Raw:    raw,
			Offset: errorOffset(err),
			Err:    err,
		}
	}
	return nil
}

// fence prefixes models like to wrap JSON in
var fenceMarkers = []string{"```json", "```JSON", "```", "'''json", "'''"}

// StripFences removes a single leading and trailing fence line if present.
// Content is otherwise untouched; fences inside the body are the model's
// problem, not ours.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	for _, m := range fenceMarkers {
		if strings.HasPrefix(s, m) {
			s = strings.TrimSpace(s[len(m):])
			break
		}
	}
	for _, m := range []string{"```", "'''"} {
		if strings.HasSuffix(s, m) {
			s = strings.TrimSpace(s[:len(s)-len(m)])
			break
		}
	}
	return s
}

func errorOffset(err error) int64 {
	if syn, ok := err.(*json.SyntaxError); ok {
		return syn.Offset
	}
	if typ, ok := err.(*json.UnmarshalTypeError); ok {
		return typ.Offset
	}
	return 0
}
