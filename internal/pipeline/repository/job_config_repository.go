package repository

import (
	"context"

	"sentiment-pipeline/internal/entity"

	"gorm.io/gorm"
)

// JobConfigRepository defines the interface for job timing configuration
// rows.
type JobConfigRepository interface {
	Create(ctx context.Context, config *entity.JobConfig) error
	FindAll(ctx context.Context) ([]entity.JobConfig, error)
	FindActiveConfig(ctx context.Context) (*entity.JobConfig, error)
	SetDefault(ctx context.Context, id uint) error
}

// NewJobConfigRepository creates a new GORM-based job config repository.
func NewJobConfigRepository(db *gorm.DB) JobConfigRepository {
	return &jobConfigRepository{db: db}
}

type jobConfigRepository struct {
	db *gorm.DB
}

// Create persists a new configuration row.
func (r *jobConfigRepository) Create(ctx context.Context, config *entity.JobConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

// FindAll retrieves every configuration row ordered by name.
func (r *jobConfigRepository) FindAll(ctx context.Context) ([]entity.JobConfig, error) {
	var configs []entity.JobConfig
	if err := r.db.WithContext(ctx).Order("name").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// FindActiveConfig retrieves the active default row, falling back to any
// active row, or nil when nothing is active. The scheduler schedules no
// work in the nil case.
func (r *jobConfigRepository) FindActiveConfig(ctx context.Context) (*entity.JobConfig, error) {
	var config entity.JobConfig
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_default = ?", true, true).
		First(&config).Error
	if err == gorm.ErrRecordNotFound {
		err = r.db.WithContext(ctx).
			Where("is_active = ?", true).
			Order("id").
			First(&config).Error
	}
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
func (r *jobConfigRepository) SetDefault(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.JobConfig{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		result := tx.Model(&entity.JobConfig{}).
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
