// Package assets provides the embedded default prompt document.
package assets

import (
	_ "embed"
	"os"
	"path/filepath"
)

//go:embed prompts.md
var defaultPrompts []byte

// Prompts returns the prompt document content.
// Override lookup order: project .loom/prompts.md > user ~/.loom/prompts.md > embedded.
func Prompts() []byte {
	if data, err := os.ReadFile(filepath.Join(".loom", "prompts.md")); err == nil {
		return data
	}
	if home, err := os.UserHomeDir(); err == nil {
		if data, err := os.ReadFile(filepath.Join(home, ".loom", "prompts.md")); err == nil {
			return data
		}
	}
	return defaultPrompts
}
