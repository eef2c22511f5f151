package template

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/nvasko/loom/internal/parse"
)

// Template is a named prompt body with {placeholder} markers and the shape
// its completion output is expected to have. Templates are immutable once
// loaded into a Store.
type Template struct {
	Name  string
	Body  string
	Shape parse.Shape
}

var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Placeholders returns the sorted, de-duplicated placeholder names referenced
// by the template body.
func (t *Template) Placeholders() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(t.Body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

// Store holds named templates loaded at startup.
type Store struct {
	templates map[string]*Template
}

func NewStore() *Store {
	return &Store{templates: make(map[string]*Template)}
}

// Add registers a template. Re-registering a name is a load-time bug.
func (s *Store) Add(t *Template) error {
	if _, exists := s.templates[t.Name]; exists {
		return fmt.Errorf("duplicate template %q", t.Name)
	}
	s.templates[t.Name] = t
	return nil
}

// Get returns the named template.
func (s *Store) Get(name string) (*Template, error) {
	t, ok := s.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	return t, nil
}

// Names lists registered template names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) Len() int { return len(s.templates) }
