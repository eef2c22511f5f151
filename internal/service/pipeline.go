package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nvasko/loom/internal/chain"
	"github.com/nvasko/loom/internal/config"
	"github.com/nvasko/loom/internal/domain"
	"github.com/nvasko/loom/internal/llm"
	"github.com/nvasko/loom/internal/output"
	"github.com/nvasko/loom/internal/repository"
	"github.com/nvasko/loom/internal/template"
)

// contextSection is a prompt-document section bound as a static variable
// before the first step runs, never executed as a step itself.
const contextSection = "ai_capability_model"

// profileFields are the standard input fields; absent ones are bound as
// empty strings so a run can start from just a name.
var profileFields = []string{"name", "title", "company", "notes", "gender", "bio"}

// PipelineService wires the template store, the chain executor, the
// completion collaborator, persistence, and the output folder together.
type PipelineService struct {
	cfg      *config.ConfigSchema
	store    *template.Store
	repo     repository.RunRepository
	complete chain.CompletionFunc
	preset   config.ModelPreset
}

func NewPipelineService(cfg *config.ConfigSchema, store *template.Store, repo repository.RunRepository) (*PipelineService, error) {
	preset := cfg.Models[cfg.ActiveModel]

	var complete chain.CompletionFunc
	if cfg.Simulate || !llm.HasCredentials(preset) {
		complete = llm.Simulated()
	} else {
		var err error
		complete, err = llm.Completion(preset)
		if err != nil {
			return nil, fmt.Errorf("failed to create completion client: %w", err)
		}
	}

	return &PipelineService{
		cfg:      cfg,
		store:    store,
		repo:     repo,
		complete: complete,
		preset:   preset,
	}, nil
}

// WithCompletion swaps the completion collaborator. Tests and callers with
// their own retry or timeout policy use this.
func (s *PipelineService) WithCompletion(fn chain.CompletionFunc) *PipelineService {
	s.complete = fn
	return s
}

// BuildChain resolves a configured chain spec against the template store.
func (s *PipelineService) BuildChain(name string) (*chain.Chain, error) {
	spec, ok := s.cfg.Chains[name]
	if !ok {
		return nil, fmt.Errorf("chain %q not found in configuration", name)
	}

	c := &chain.Chain{Name: name}
	for _, stepSpec := range spec.Steps {
		tpl, err := s.store.Get(stepSpec.Template)
		if err != nil {
			return nil, fmt.Errorf("chain %q: %w", name, err)
		}
		produces := stepSpec.Produces
		if produces == "" {
			produces = stepSpec.Template
		}
		c.Steps = append(c.Steps, chain.Step{
			Name:     stepSpec.Template,
			Template: tpl,
			Inputs:   stepSpec.Inputs,
			Produces: produces,
		})
	}
	return c, nil
}

// preparedRun carries everything between run setup and execution.
type preparedRun struct {
	run      *domain.Run
	pending  *chain.Chain
	bindings map[string]string
	paths    *output.Paths
	sections []string
}

func (s *PipelineService) prepare(ctx context.Context, chainName string, input map[string]string) (*preparedRun, error) {
	subject := strings.TrimSpace(input["name"])
	if subject == "" {
		return nil, fmt.Errorf("input must include a non-empty %q value", "name")
	}

	full, err := s.BuildChain(chainName)
	if err != nil {
		return nil, err
	}

	paths, err := output.ForSubject(s.cfg.OutputDir, subject)
	if err != nil {
		return nil, err
	}
	if _, err := paths.WriteSectionIfChanged("user_input", input); err != nil {
		return nil, err
	}

	bindings := make(map[string]string, len(input)+1)
	for k, v := range input {
		bindings[k] = v
	}
	for _, field := range profileFields {
		if _, ok := bindings[field]; !ok {
			bindings[field] = ""
		}
	}
	if tpl, err := s.store.Get(contextSection); err == nil {
		bindings[contextSection] = tpl.Body
	} else {
		slog.Warn("context section missing from prompt document; prompts may be incomplete",
			"section", contextSection)
	}

	var sections []string
	for _, step := range full.Steps {
		sections = append(sections, step.Produces)
	}

	// Reuse previously generated sections: bind their content and skip
	// their steps. This is the resume story; the executor never retries.
	cached := paths.CachedSections(sections)
	pending := &chain.Chain{Name: full.Name}
	for _, step := range full.Steps {
		if content, ok := cached[step.Produces]; ok {
			slog.Info("using cached section", "section", step.Produces, "folder", paths.Base)
			bindings[step.Produces] = chain.BindingValue(content)
			continue
		}
		if bindings[step.Produces] != "" {
			// Supplied directly in the input (e.g. a hand-written bio).
			continue
		}
		pending.Steps = append(pending.Steps, step)
	}

	run := &domain.Run{
		ID:        uuid.New(),
		ChainName: chainName,
		Subject:   output.SanitizeName(subject),
		OutputDir: paths.Base,
		Status:    domain.RunProcessing,
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return &preparedRun{
		run:      run,
		pending:  pending,
		bindings: bindings,
		paths:    paths,
		sections: sections,
	}, nil
}

func (s *PipelineService) execute(ctx context.Context, pr *preparedRun) (*domain.Run, error) {
	results, execErr := chain.Run(ctx, pr.pending, pr.bindings, s.complete)

	for i := range results {
		res := &results[i]
		record := &domain.StepResult{
			StepName:       res.StepName,
			RenderedPrompt: res.RenderedPrompt,
			RawResponse:    res.RawResponse,
			Status:         domain.StepStatus(res.Status),
			ModelName:      s.preset.Name,
			Provider:       s.preset.Provider,
			DurationMS:     res.Duration.Milliseconds(),
		}
		if res.Status == chain.StatusSuccess {
			record.ParsedValue = chain.BindingValue(res.Parsed)
			if _, err := pr.paths.WriteSectionIfChanged(sectionFor(pr.pending, res.StepName), res.Parsed); err != nil {
				slog.Warn("failed to write section file", "step", res.StepName, "error", err)
			}
		}
		if err := s.repo.AddStepResult(ctx, pr.run.ID, record); err != nil {
			slog.Warn("failed to persist step result", "step", res.StepName, "error", err)
		}
		pr.run.Steps = append(pr.run.Steps, *record)
	}

	status := domain.RunCompleted
	var runErr string
	switch {
	case execErr != nil:
		status = domain.RunFailed
		runErr = execErr.Error()
	case len(results) > 0 && results[len(results)-1].Status != chain.StatusSuccess:
		status = domain.RunFailed
		if last := results[len(results)-1]; last.Err != nil {
			runErr = last.Err.Error()
		}
	}

	if err := s.repo.SetRunStatus(ctx, pr.run.ID, status, runErr); err != nil {
		slog.Warn("failed to update run status", "run", pr.run.ID, "error", err)
	}
	pr.run.Status = status
	pr.run.Error = runErr

	if status == domain.RunCompleted {
		if _, err := pr.paths.Combine(append([]string{"user_input"}, pr.sections...)); err != nil {
			slog.Warn("failed to write combined output", "error", err)
		}
	}

	if execErr != nil {
		return pr.run, execErr
	}
	return pr.run, nil
}

// Run executes a named chain for the given user input and persists both the
// run record and the per-section output files. A partial run still returns
// the run record so callers can inspect how far it got.
func (s *PipelineService) Run(ctx context.Context, chainName string, input map[string]string) (*domain.Run, error) {
	pr, err := s.prepare(ctx, chainName, input)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, pr)
}

// RunAsync validates the request, records the run, and executes it in the
// background. Callers poll the repository by the returned ID.
func (s *PipelineService) RunAsync(chainName string, input map[string]string) (uuid.UUID, error) {
	pr, err := s.prepare(context.Background(), chainName, input)
	if err != nil {
		return uuid.Nil, err
	}

	go func() {
		if _, err := s.execute(context.Background(), pr); err != nil {
			slog.Error("background run failed", "run", pr.run.ID, "error", err)
		}
	}()

	return pr.run.ID, nil
}

// Repo exposes the underlying run repository for read-side callers.
func (s *PipelineService) Repo() repository.RunRepository { return s.repo }

func sectionFor(c *chain.Chain, stepName string) string {
	for _, step := range c.Steps {
		if step.Name == stepName {
			return step.Produces
		}
	}
	return stepName
}
