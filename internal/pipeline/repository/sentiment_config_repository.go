package repository

import (
	"context"

	"sentiment-pipeline/internal/entity"

	"gorm.io/gorm"
)

// SentimentConfigRepository defines the interface for sentiment algorithm
// configuration rows.
type SentimentConfigRepository interface {
	Create(ctx context.Context, config *entity.SentimentConfig) error
	FindAll(ctx context.Context) ([]entity.SentimentConfig, error)
	FindActiveDefault(ctx context.Context) (*entity.SentimentConfig, error)
	SetDefault(ctx context.Context, id uint) error
}

// NewSentimentConfigRepository creates a new GORM-based sentiment config
// repository.
func NewSentimentConfigRepository(db *gorm.DB) SentimentConfigRepository {
	return &sentimentConfigRepository{db: db}
}

type sentimentConfigRepository struct {
	db *gorm.DB
}

// Create persists a new configuration row.
func (r *sentimentConfigRepository) Create(ctx context.Context, config *entity.SentimentConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

// FindAll retrieves every configuration row ordered by name.
func (r *sentimentConfigRepository) FindAll(ctx context.Context) ([]entity.SentimentConfig, error) {
	var configs []entity.SentimentConfig
	if err := r.db.WithContext(ctx).Order("name").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// FindActiveDefault retrieves the active default row, or nil when none is
// configured. The sentiment stage persists a fallback in that case.
func (r *sentimentConfigRepository) FindActiveDefault(ctx context.Context) (*entity.SentimentConfig, error) {
	var config entity.SentimentConfig
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_default = ?", true, true).
		First(&config).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// SetDefault clears the default flag on every row and sets it on the
// target in one transaction.
func (r *sentimentConfigRepository) SetDefault(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.SentimentConfig{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		result := tx.Model(&entity.SentimentConfig{}).
			Where("id = ?", id).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
