package output

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Paths manages the per-subject output folder where each chain section is
// saved as <section>.json.
type Paths struct {
	Base string
}

var unsafeChars = regexp.MustCompile(`\W+`)

// SanitizeName normalizes a subject name for folder use.
func SanitizeName(name string) string {
	s := unsafeChars.ReplaceAllString(name, "_")
	s = strings.Trim(s, "_")
	s = strings.ToLower(s)
	if s == "" {
		return "anonymous"
	}
	return s
}

// ForSubject creates (if needed) and returns the output folder for a subject.
func ForSubject(outputDir, subject string) (*Paths, error) {
	base := filepath.Join(outputDir, SanitizeName(subject))
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, fmt.Errorf("creating output folder: %w", err)
	}
	return &Paths{Base: base}, nil
}

func (p *Paths) sectionPath(section string) string {
	return filepath.Join(p.Base, section+".json")
}

// LoadSection returns the parsed content of <section>.json, or nil if the
// file is missing or unreadable.
func (p *Paths) LoadSection(section string) any {
	data, err := os.ReadFile(p.sectionPath(section))
	if err != nil {
		return nil
	}
	var content any
	if err := json.Unmarshal(data, &content); err != nil {
		slog.Warn("cached section is not valid JSON; ignoring", "section", section, "error", err)
		return nil
	}
	return content
}

// WriteSectionIfChanged persists a section's content, skipping the write when
// the serialized form matches what is already on disk.
func (p *Paths) WriteSectionIfChanged(section string, content any) (string, error) {
	target := p.sectionPath(section)

	serialized, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing section %s: %w", section, err)
	}

	if existing, err := os.ReadFile(target); err == nil {
		if sha256.Sum256(existing) == sha256.Sum256(serialized) {
			slog.Info("skipping write; content unchanged", "section", section)
			return target, nil
		}
	}

	if err := os.WriteFile(target, serialized, 0644); err != nil {
		return "", fmt.Errorf("writing section %s: %w", section, err)
	}
	return target, nil
}

// CachedSections scans the folder for valid JSON sections from a previous
// run. Partial results are fine; the caller decides what to regenerate.
func (p *Paths) CachedSections(sections []string) map[string]any {
	cached := make(map[string]any)
	for _, section := range sections {
		if content := p.LoadSection(section); content != nil {
			cached[section] = content
		}
	}
	return cached
}

// Combine merges every saved section into combined_output.json inside the
// same folder and returns its path. Missing sections are skipped.
func (p *Paths) Combine(sections []string) (string, error) {
	combined := make(map[string]any)
	for _, section := range sections {
		content := p.LoadSection(section)
		if content == nil {
			slog.Warn("section missing from output folder; skipping", "section", section)
			continue
		}
		combined[section] = content
	}

	target := filepath.Join(p.Base, "combined_output.json")
	serialized, err := json.MarshalIndent(combined, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing combined output: %w", err)
	}
	if err := os.WriteFile(target, serialized, 0644); err != nil {
		return "", fmt.Errorf("writing combined output: %w", err)
	}
	return target, nil
}

// Sections lists the section files present in the folder.
func (p *Paths) Sections() ([]string, error) {
	entries, err := os.ReadDir(p.Base)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
