package repository

import (
	"context"
	"time"

	"sentiment-pipeline/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SentimentScoreRepository defines the interface for sentiment score data
// operations.
type SentimentScoreRepository interface {
	Create(ctx context.Context, score *entity.SentimentScore) error
	ExistsForJob(ctx context.Context, jobID uuid.UUID) (bool, error)
	FindRecentByCustomer(ctx context.Context, customerID uint, limit int) ([]entity.SentimentScore, error)
	FindSince(ctx context.Context, since time.Time) ([]entity.SentimentScore, error)
	FindByIndustrySince(ctx context.Context, industry string, since time.Time) ([]entity.SentimentScore, error)
	FindByCustomerInRange(ctx context.Context, customerID uint, from, to time.Time) ([]entity.SentimentScore, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]entity.SentimentScore, error)
}

// NewSentimentScoreRepository creates a new GORM-based sentiment score
// repository.
func NewSentimentScoreRepository(db *gorm.DB) SentimentScoreRepository {
	return &sentimentScoreRepository{db: db}
}

type sentimentScoreRepository struct {
	db *gorm.DB
}

// Create persists a new sentiment score inside its own transaction.
func (r *sentimentScoreRepository) Create(ctx context.Context, score *entity.SentimentScore) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(score).Error
	})
}

// ExistsForJob reports whether the sync job already has a score. This is
// the skip-if-exists idempotence check.
func (r *sentimentScoreRepository) ExistsForJob(ctx context.Context, jobID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.SentimentScore{}).
		Where("job_id = ?", jobID).
		Count(&count).Error
	return count > 0, err
}

// FindRecentByCustomer retrieves a customer's most recent scores, newest
// first.
func (r *sentimentScoreRepository) FindRecentByCustomer(ctx context.Context, customerID uint, limit int) ([]entity.SentimentScore, error) {
	var scores []entity.SentimentScore
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// FindSince retrieves all scores created at or after since, with their
// customers preloaded.
func (r *sentimentScoreRepository) FindSince(ctx context.Context, since time.Time) ([]entity.SentimentScore, error) {
	var scores []entity.SentimentScore
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("created_at >= ?", since).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// FindByIndustrySince retrieves scores for customers in one industry,
// created at or after since.
func (r *sentimentScoreRepository) FindByIndustrySince(ctx context.Context, industry string, since time.Time) ([]entity.SentimentScore, error) {
	var scores []entity.SentimentScore
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Joins("JOIN customers ON customers.id = sentiment_scores.customer_id").
		Where("customers.industry = ? AND sentiment_scores.created_at >= ?", industry, since).
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// FindByCustomerInRange retrieves one customer's scores inside [from, to],
// newest first.
func (r *sentimentScoreRepository) FindByCustomerInRange(ctx context.Context, customerID uint, from, to time.Time) ([]entity.SentimentScore, error) {
	var scores []entity.SentimentScore
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND created_at >= ? AND created_at <= ?", customerID, from, to).
		Order("created_at DESC").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// FindInRange retrieves all scores created inside [from, to], newest first.
func (r *sentimentScoreRepository) FindInRange(ctx context.Context, from, to time.Time) ([]entity.SentimentScore, error) {
	var scores []entity.SentimentScore
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at DESC").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}
