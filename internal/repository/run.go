package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nvasko/loom/internal/domain"
)

type RunRepository interface {
	// Runs
	CreateRun(ctx context.Context, run *domain.Run) error
	GetRunByID(ctx context.Context, id uuid.UUID) (*domain.Run, error)
	GetRunByPartialID(ctx context.Context, partialID string) (*domain.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*domain.Run, error)
	GetMostRecentRun(ctx context.Context) (*domain.Run, error)
	DeleteRun(ctx context.Context, id uuid.UUID) error
	SetRunStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus, errMsg string) error

	// Step results
	AddStepResult(ctx context.Context, runID uuid.UUID, result *domain.StepResult) error
	GetStepResults(ctx context.Context, runID uuid.UUID) ([]domain.StepResult, error)
}
