package repository

import (
	"context"

	"sentiment-pipeline/internal/entity"

	"gorm.io/gorm"
)

// StageRunHistoryRepository defines the interface for stage execution
// history rows.
type StageRunHistoryRepository interface {
	Create(ctx context.Context, history *entity.StageRunHistory) error
	Update(ctx context.Context, history *entity.StageRunHistory) error
	FindRecent(ctx context.Context, limit int) ([]entity.StageRunHistory, error)
	FindRecentByStage(ctx context.Context, stage string, limit int) ([]entity.StageRunHistory, error)
}

// NewStageRunHistoryRepository creates a new GORM-based history
// repository.
func NewStageRunHistoryRepository(db *gorm.DB) StageRunHistoryRepository {
	return &stageRunHistoryRepository{db: db}
}

type stageRunHistoryRepository struct {
	db *gorm.DB
}

// Create persists a new history row.
func (r *stageRunHistoryRepository) Create(ctx context.Context, history *entity.StageRunHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// Update saves the completion fields of an existing history row.
func (r *stageRunHistoryRepository) Update(ctx context.Context, history *entity.StageRunHistory) error {
	return r.db.WithContext(ctx).Save(history).Error
}

// FindRecent retrieves the newest history rows across all stages.
func (r *stageRunHistoryRepository) FindRecent(ctx context.Context, limit int) ([]entity.StageRunHistory, error) {
	var histories []entity.StageRunHistory
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}

// FindRecentByStage retrieves the newest history rows for one stage.
func (r *stageRunHistoryRepository) FindRecentByStage(ctx context.Context, stage string, limit int) ([]entity.StageRunHistory, error) {
	var histories []entity.StageRunHistory
	err := r.db.WithContext(ctx).
		Where("stage = ?", stage).
		Order("started_at DESC").
		Limit(limit).
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}
