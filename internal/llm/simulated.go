package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/nvasko/loom/internal/chain"
	"github.com/nvasko/loom/internal/config"
)

// HasCredentials reports whether the preset's provider has an API key in the
// environment.
func HasCredentials(preset config.ModelPreset) bool {
	switch preset.Provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY") != ""
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY") != ""
	case "googleai":
		return os.Getenv("GEMINI_API_KEY") != ""
	}
	return false
}

// Simulated returns a completion that fabricates an answer instead of calling
// a provider. Used when no API key is configured so the pipeline stays
// runnable end to end; simulated output is plain text regardless of the
// step's declared shape, so JSON steps will record parse errors.
func Simulated() chain.CompletionFunc {
	return func(_ context.Context, prompt string) (string, error) {
		slog.Warn("no API key configured; simulating completion")
		preview := prompt
		if len(preview) > 60 {
			preview = preview[:57] + "..."
		}
		return fmt.Sprintf("Simulated output for prompt: %s", preview), nil
	}
}
