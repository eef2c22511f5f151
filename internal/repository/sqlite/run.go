package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nvasko/loom/internal/domain"
	"gorm.io/gorm"
)

func (r *runRepo) CreateRun(ctx context.Context, run *domain.Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *runRepo) GetRunByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	var run domain.Run
	if err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_results.created_at ASC")
		}).
		First(&run, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NoRunError{}
		}
		return nil, err
	}
	return &run, nil
}

func (r *runRepo) GetRunByPartialID(ctx context.Context, partialID string) (*domain.Run, error) {
	partialID = strings.ToLower(partialID)

	var run domain.Run
	if err := r.db.WithContext(ctx).
		Where("LOWER(CAST(id AS TEXT)) LIKE ?", partialID+"%").
		First(&run).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("no run found matching ID %q", partialID)
		}
		return nil, err
	}
	return r.GetRunByID(ctx, run.ID)
}

func (r *runRepo) ListRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	var runs []*domain.Run
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *runRepo) GetMostRecentRun(ctx context.Context) (*domain.Run, error) {
	var run domain.Run
	if err := r.db.WithContext(ctx).Order("created_at DESC").First(&run).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NoRunError{}
		}
		return nil, err
	}
	return r.GetRunByID(ctx, run.ID)
}

func (r *runRepo) DeleteRun(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", id).Delete(&domain.StepResult{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Run{}, "id = ?", id).Error
	})
}

func (r *runRepo) SetRunStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Run{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "error": errMsg}).Error
}

func (r *runRepo) AddStepResult(ctx context.Context, runID uuid.UUID, result *domain.StepResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	result.RunID = runID
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *runRepo) GetStepResults(ctx context.Context, runID uuid.UUID) ([]domain.StepResult, error) {
	var results []domain.StepResult
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
