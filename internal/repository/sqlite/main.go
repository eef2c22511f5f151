package sqlite

import (
	"fmt"

	"github.com/nvasko/loom/internal/domain"
	"github.com/nvasko/loom/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type runRepo struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) repository.RunRepository {
	return &runRepo{db: db}
}

// Initialize creates a new SQLite run repository with the given database path
func Initialize(dbPath string) (repository.RunRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Run{}, &domain.StepResult{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewRunRepository(db), nil
}
