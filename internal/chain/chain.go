package chain

import (
	"fmt"

	"github.com/nvasko/loom/internal/template"
)

// Step renders one template and binds its parsed output under Produces for
// the steps that follow.
type Step struct {
	Name     string
	Template *template.Template
	// Inputs are the variable names the step requires. When empty, the
	// template's own placeholders are used.
	Inputs   []string
	Produces string
}

// Requires returns the declared inputs, falling back to the template's
// placeholders.
func (s Step) Requires() []string {
	if len(s.Inputs) > 0 {
		return s.Inputs
	}
	return s.Template.Placeholders()
}

// Chain is an ordered sequence of steps with data-dependency edges: every
// input of a step must come from an earlier step's Produces or from the
// initial bindings. Forward references are construction errors.
type Chain struct {
	Name  string
	Steps []Step
}

// Validate checks the no-forward-reference invariant against the given
// initial binding names.
func (c *Chain) Validate(initial []string) error {
	available := make(map[string]bool, len(initial))
	for _, name := range initial {
		available[name] = true
	}

	for i, step := range c.Steps {
		if step.Template == nil {
			return fmt.Errorf("chain %q: step %d (%s) has no template", c.Name, i, step.Name)
		}
		for _, in := range step.Requires() {
			if !available[in] {
				return fmt.Errorf("chain %q: step %q requires %q, which no earlier step produces and no initial binding supplies",
					c.Name, step.Name, in)
			}
		}
		if step.Produces != "" {
			available[step.Produces] = true
		}
	}
	return nil
}
