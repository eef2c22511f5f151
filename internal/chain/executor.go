package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nvasko/loom/internal/parse"
	"github.com/nvasko/loom/internal/template"
)

// CompletionFunc is the external AI-completion collaborator. The executor
// never embeds a concrete model integration; callers inject one (and wrap it
// with their own timeout or retry policy if they want any).
type CompletionFunc func(ctx context.Context, prompt string) (string, error)

// ExecutionResult captures everything that happened for one step.
type ExecutionResult struct {
	StepName       string
	RenderedPrompt string
	RawResponse    string
	Parsed         any
	Status         string
	Err            error
	Duration       time.Duration
}

const (
	StatusSuccess       = "success"
	StatusParseError    = "parse_error"
	StatusUpstreamError = "upstream_error"
)

// Run executes the chain's steps in order against the current bindings.
//
// A render failure aborts immediately with an error: it means the chain was
// constructed wrong, not that the collaborator misbehaved. A completion
// failure (error or empty response) records upstream_error and halts; a
// response that does not parse as the step's shape records parse_error and
// halts. Later steps are never attempted after a halt since they may depend
// on the failed step's output. The results produced up to that point are
// always returned.
func Run(ctx context.Context, c *Chain, initial map[string]string, complete CompletionFunc) ([]ExecutionResult, error) {
	names := make([]string, 0, len(initial))
	for name := range initial {
		names = append(names, name)
	}
	if err := c.Validate(names); err != nil {
		return nil, err
	}

	bindings := make(map[string]string, len(initial))
	for k, v := range initial {
		bindings[k] = v
	}

	var results []ExecutionResult

	for _, step := range c.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		prompt, unused, err := template.Render(step.Template, bindings)
		if err != nil {
			return results, fmt.Errorf("step %q: %w", step.Name, err)
		}
		for _, name := range unused {
			slog.Debug("binding not referenced by template", "step", step.Name, "binding", name)
		}

		start := time.Now()
		raw, err := complete(ctx, prompt)
		duration := time.Since(start)

		if err == nil && strings.TrimSpace(raw) == "" {
			err = fmt.Errorf("completion returned an empty response")
		}
		if err != nil {
			slog.Warn("completion failed", "chain", c.Name, "step", step.Name, "error", err)
			results = append(results, ExecutionResult{
				StepName:       step.Name,
				RenderedPrompt: prompt,
				RawResponse:    raw,
				Status:         StatusUpstreamError,
				Err:            err,
				Duration:       duration,
			})
			return results, nil
		}

		parsed, err := parse.Parse(raw, step.Template.Shape)
		if err != nil {
			slog.Warn("response did not match declared shape",
				"chain", c.Name, "step", step.Name, "shape", step.Template.Shape, "error", err)
			results = append(results, ExecutionResult{
				StepName:       step.Name,
				RenderedPrompt: prompt,
				RawResponse:    raw,
				Status:         StatusParseError,
				Err:            err,
				Duration:       duration,
			})
			return results, nil
		}

		if step.Produces != "" {
			bindings[step.Produces] = BindingValue(parsed)
		}

		results = append(results, ExecutionResult{
			StepName:       step.Name,
			RenderedPrompt: prompt,
			RawResponse:    raw,
			Parsed:         parsed,
			Status:         StatusSuccess,
			Duration:       duration,
		})
	}

	return results, nil
}

// BindingValue converts a parsed value into the string form later templates
// see. Structured values are bound as their JSON encoding so a downstream
// prompt can embed them verbatim.
func BindingValue(parsed any) string {
	if s, ok := parsed.(string); ok {
		return s
	}
	encoded, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", parsed)
	}
	return string(encoded)
}
