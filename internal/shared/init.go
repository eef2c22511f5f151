package shared

import (
	"bytes"
	"fmt"

	"github.com/nvasko/loom/internal/appState"
	"github.com/nvasko/loom/internal/assets"
	"github.com/nvasko/loom/internal/repository/sqlite"
	"github.com/nvasko/loom/internal/service"
	"github.com/nvasko/loom/internal/template"
)

// LoadTemplates builds the template store from the configured prompt
// document, falling back to the embedded defaults.
func LoadTemplates() (*template.Store, error) {
	cfg := appState.Get().Config

	if cfg.PromptsPath != "" {
		store, err := template.LoadMarkdownFile(cfg.PromptsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load prompt document %s: %w", cfg.PromptsPath, err)
		}
		return store, nil
	}

	store, err := template.LoadMarkdown(bytes.NewReader(assets.Prompts()))
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded prompt document: %w", err)
	}
	return store, nil
}

// InitializePipelineService wires config, templates, storage, and the
// completion client into a ready PipelineService.
func InitializePipelineService() (*service.PipelineService, error) {
	cfg := appState.Get().Config

	store, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	repo, err := sqlite.Initialize(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	svc, err := service.NewPipelineService(cfg, store, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline service: %w", err)
	}

	return svc, nil
}
