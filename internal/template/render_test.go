package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/nvasko/loom/internal/parse"
)

func TestRenderSubstitutesAllPlaceholders(t *testing.T) {
	tpl := &Template{
		Name: "greeting",
		Body: "Hello {name}, you work at {company}.",
	}
	bindings := map[string]string{"name": "Amara", "company": "Zendrel"}

	got, unused, err := Render(tpl, bindings)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "Hello Amara, you work at Zendrel." {
		t.Errorf("Render() = %q", got)
	}
	if len(unused) != 0 {
		t.Errorf("unexpected unused bindings: %v", unused)
	}
	if strings.Contains(got, "{") {
		t.Errorf("rendered output still contains a placeholder: %q", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	tpl := &Template{Name: "t", Body: "{a} and {b} and {a}"}
	bindings := map[string]string{"a": "x", "b": "y"}

	first, _, err := Render(tpl, bindings)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, _, err := Render(tpl, bindings)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("render %d differs: %q vs %q", i, again, first)
		}
	}
}

func TestRenderMissingVariable(t *testing.T) {
	tpl := &Template{Name: "bio", Body: "About {name}: {notes}"}

	got, _, err := Render(tpl, map[string]string{"name": "Kai"})
	if err == nil {
		t.Fatal("expected error for missing binding")
	}
	var missing *MissingVariableError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingVariableError, got %T", err)
	}
	if len(missing.Variables) != 1 || missing.Variables[0] != "notes" {
		t.Errorf("missing variables = %v, want [notes]", missing.Variables)
	}
	if got != "" {
		t.Errorf("expected no output on error, got %q", got)
	}
}

func TestRenderReportsAllMissingVariables(t *testing.T) {
	tpl := &Template{Name: "t", Body: "{a} {b} {c} {b}"}

	_, _, err := Render(tpl, map[string]string{"a": "1"})
	var missing *MissingVariableError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingVariableError, got %v", err)
	}
	if len(missing.Variables) != 2 {
		t.Errorf("missing variables = %v, want b and c once each", missing.Variables)
	}
}

func TestRenderSurfacesUnusedBindings(t *testing.T) {
	tpl := &Template{Name: "t", Body: "only {a} here"}
	bindings := map[string]string{"a": "1", "stray": "2", "extra": "3"}

	got, unused, err := Render(tpl, bindings)
	if err != nil {
		t.Fatalf("unused bindings must not block rendering: %v", err)
	}
	if got != "only 1 here" {
		t.Errorf("Render() = %q", got)
	}
	if len(unused) != 2 || unused[0] != "extra" || unused[1] != "stray" {
		t.Errorf("unused = %v, want [extra stray]", unused)
	}
}

func TestRenderNoRecursiveExpansion(t *testing.T) {
	tpl := &Template{Name: "t", Body: "value: {a}"}
	bindings := map[string]string{"a": "{b}", "b": "nope"}

	got, _, err := Render(tpl, bindings)
	if err != nil {
		t.Fatal(err)
	}
	if got != "value: {b}" {
		t.Errorf("substituted values must not be re-scanned, got %q", got)
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"none", "plain text", nil},
		{"single", "hi {name}", []string{"name"}},
		{"deduped and sorted", "{z} {a} {z}", []string{"a", "z"}},
		{"underscores", "{ai_capability_model}", []string{"ai_capability_model"}},
		{"json braces ignored", `{"key": "value"}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := &Template{Body: tt.body}
			got := tpl.Placeholders()
			if len(got) != len(tt.want) {
				t.Fatalf("Placeholders() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Placeholders() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestStoreDuplicate(t *testing.T) {
	store := NewStore()
	if err := store.Add(&Template{Name: "bio", Shape: parse.PlainText}); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(&Template{Name: "bio"}); err == nil {
		t.Error("expected duplicate template error")
	}
}
