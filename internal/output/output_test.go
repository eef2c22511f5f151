package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Amara Okafor", "amara_okafor"},
		{"  J. R. R.  Tolkien!  ", "j_r_r_tolkien"},
		{"über-user", "ber_user"},
		{"___", "anonymous"},
		{"", "anonymous"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteSectionIfChanged(t *testing.T) {
	paths, err := ForSubject(t.TempDir(), "Amara Okafor")
	if err != nil {
		t.Fatal(err)
	}

	target, err := paths.WriteSectionIfChanged("bio", "a short bio")
	if err != nil {
		t.Fatal(err)
	}
	first, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}

	// touch the mtime window so an actual rewrite would be observable
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(target, past, past); err != nil {
		t.Fatal(err)
	}

	if _, err := paths.WriteSectionIfChanged("bio", "a short bio"); err != nil {
		t.Fatal(err)
	}
	second, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if second.ModTime().After(past.Add(time.Minute)) {
		t.Error("unchanged content was rewritten")
	}

	if _, err := paths.WriteSectionIfChanged("bio", "a different bio"); err != nil {
		t.Fatal(err)
	}
	third, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if !third.ModTime().After(first.ModTime().Add(-time.Second)) {
		t.Error("changed content was not written")
	}

	if got := paths.LoadSection("bio"); got != "a different bio" {
		t.Errorf("LoadSection() = %v", got)
	}
}

func TestLoadSectionMissingOrInvalid(t *testing.T) {
	paths, err := ForSubject(t.TempDir(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if got := paths.LoadSection("nope"); got != nil {
		t.Errorf("missing section = %v, want nil", got)
	}
	if err := os.WriteFile(filepath.Join(paths.Base, "bad.json"), []byte("{truncated"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := paths.LoadSection("bad"); got != nil {
		t.Errorf("invalid section = %v, want nil", got)
	}
}

func TestCachedSections(t *testing.T) {
	paths, err := ForSubject(t.TempDir(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := paths.WriteSectionIfChanged("bio", "text"); err != nil {
		t.Fatal(err)
	}
	if _, err := paths.WriteSectionIfChanged("profile", map[string]any{"gender": "female"}); err != nil {
		t.Fatal(err)
	}

	cached := paths.CachedSections([]string{"bio", "profile", "scripts"})
	if len(cached) != 2 {
		t.Fatalf("cached = %v, want bio and profile only", cached)
	}
	if cached["bio"] != "text" {
		t.Errorf("bio = %v", cached["bio"])
	}
}

func TestCombine(t *testing.T) {
	paths, err := ForSubject(t.TempDir(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := paths.WriteSectionIfChanged("bio", "text"); err != nil {
		t.Fatal(err)
	}
	if _, err := paths.WriteSectionIfChanged("scripts", []any{"one", "two"}); err != nil {
		t.Fatal(err)
	}

	target, err := paths.Combine([]string{"bio", "scripts", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	var combined map[string]any
	if err := json.Unmarshal(data, &combined); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"bio":     "text",
		"scripts": []any{"one", "two"},
	}
	if !reflect.DeepEqual(combined, want) {
		t.Errorf("combined = %v, want %v", combined, want)
	}

	sections, err := paths.Sections()
	if err != nil {
		t.Fatal(err)
	}
	wantSections := []string{"bio", "combined_output", "scripts"}
	if !reflect.DeepEqual(sections, wantSections) {
		t.Errorf("Sections() = %v, want %v", sections, wantSections)
	}
}
