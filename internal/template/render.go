package template

import (
	"fmt"
	"sort"
	"strings"
)

// MissingVariableError reports placeholders that have no binding. Rendering
// with an incomplete binding set indicates a chain-construction bug, so this
// is always fatal to the caller.
type MissingVariableError struct {
	Template  string
	Variables []string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("template %q: missing bindings for %s",
		e.Template, strings.Join(e.Variables, ", "))
}

// Render substitutes bindings into the template body and returns the prompt
// plus the names of bindings that were never referenced. Unused bindings are
// advisory only; the caller decides whether to log them.
//
// Substitution is a single literal pass over the original body. A value that
// itself contains {...} is not re-scanned.
func Render(t *Template, bindings map[string]string) (string, []string, error) {
	var missing []string
	used := make(map[string]bool)

	rendered := placeholderRe.ReplaceAllStringFunc(t.Body, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := bindings[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		used[name] = true
		return value
	})

	if len(missing) > 0 {
		sort.Strings(missing)
		return "", nil, &MissingVariableError{Template: t.Name, Variables: dedupe(missing)}
	}

	var unused []string
	for name := range bindings {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)

	return rendered, unused, nil
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
