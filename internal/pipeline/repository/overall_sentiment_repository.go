package repository

import (
	"context"
	"time"

	"sentiment-pipeline/internal/entity"

	"gorm.io/gorm"
)

// OverallSentimentRepository defines the interface for product-wide
// snapshot data operations.
type OverallSentimentRepository interface {
	Create(ctx context.Context, overall *entity.OverallSentiment) error
	FindLatest(ctx context.Context) (*entity.OverallSentiment, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]entity.OverallSentiment, error)
}

// NewOverallSentimentRepository creates a new GORM-based overall snapshot
// repository.
func NewOverallSentimentRepository(db *gorm.DB) OverallSentimentRepository {
	return &overallSentimentRepository{db: db}
}

type overallSentimentRepository struct {
	db *gorm.DB
}

// Create persists a new overall snapshot inside its own transaction.
func (r *overallSentimentRepository) Create(ctx context.Context, overall *entity.OverallSentiment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(overall).Error
	})
}

// FindLatest retrieves the most recent overall snapshot, or nil when the
// overall stage has never run.
func (r *overallSentimentRepository) FindLatest(ctx context.Context) (*entity.OverallSentiment, error) {
	var snapshot entity.OverallSentiment
	err := r.db.WithContext(ctx).Order("created_at DESC").First(&snapshot).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FindInRange retrieves snapshots created inside [from, to], newest first.
func (r *overallSentimentRepository) FindInRange(ctx context.Context, from, to time.Time) ([]entity.OverallSentiment, error) {
	var snapshots []entity.OverallSentiment
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
