package parse

import (
	"errors"
	"reflect"
	"testing"
)

func TestParsePlainText(t *testing.T) {
	got, err := Parse("  Hello Amara, you work at Zendrel.  \n", PlainText)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != "Hello Amara, you work at Zendrel." {
		t.Errorf("Parse() = %q", got)
	}
}

func TestParseFencedObject(t *testing.T) {
	raw := "'''{\"gender\": \"female\"}'''"
	got, err := Parse(raw, JSONObject)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := map[string]any{"gender": "female"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %#v, want %#v", got, want)
	}
}

func TestParseFenceVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bare", `["a", "b"]`},
		{"backticks", "```\n[\"a\", \"b\"]\n```"},
		{"backticks json", "```json\n[\"a\", \"b\"]\n```"},
		{"backticks JSON", "```JSON\n[\"a\", \"b\"]\n```"},
		{"quotes", "'''\n[\"a\", \"b\"]\n'''"},
		{"quotes json", "'''json\n[\"a\", \"b\"]\n'''"},
	}

	want := []any{"a", "b"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw, JSONArray)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.raw, got, want)
			}
		})
	}
}

func TestParseMalformedArray(t *testing.T) {
	_, err := Parse("not json", JSONArray)
	if err == nil {
		t.Fatal("expected error for non-JSON array response")
	}
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("error type = %T, want *MalformedResponseError", err)
	}
	if malformed.Shape != JSONArray {
		t.Errorf("Shape = %q, want %q", malformed.Shape, JSONArray)
	}
	if malformed.Raw != "not json" {
		t.Errorf("Raw = %q, want original input preserved", malformed.Raw)
	}
	if malformed.Unwrap() == nil {
		t.Error("expected wrapped json error")
	}
}

func TestParseShapeMismatch(t *testing.T) {
	// valid JSON, wrong shape
	if _, err := Parse(`{"a": 1}`, JSONArray); err == nil {
		t.Error("object accepted as json_array")
	}
	if _, err := Parse(`[1, 2]`, JSONObject); err == nil {
		t.Error("array accepted as json_object")
	}
}

func TestParseUnknownShape(t *testing.T) {
	if _, err := Parse("x", Shape("xml")); err == nil {
		t.Error("expected error for unknown shape")
	}
}

func TestStripFencesLeavesInteriorAlone(t *testing.T) {
	raw := "```json\n{\"code\": \"fenced\"}\n```"
	got := StripFences(raw)
	if got != "{\"code\": \"fenced\"}" {
		t.Errorf("StripFences() = %q", got)
	}
}

func TestValidShape(t *testing.T) {
	for _, s := range []Shape{PlainText, JSONObject, JSONArray} {
		if !ValidShape(s) {
			t.Errorf("ValidShape(%q) = false", s)
		}
	}
	if ValidShape("yaml") {
		t.Error(`ValidShape("yaml") = true`)
	}
}
