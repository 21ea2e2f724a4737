package repository

import (
	"context"

	"sentiment-pipeline/internal/entity"

	"gorm.io/gorm"
)

// DatabaseConfigRepository defines the interface for source-connection
// configuration rows.
type DatabaseConfigRepository interface {
	Create(ctx context.Context, config *entity.DatabaseConfig) error
	FindAll(ctx context.Context) ([]entity.DatabaseConfig, error)
	FindActiveDefault(ctx context.Context) (*entity.DatabaseConfig, error)
	SetDefault(ctx context.Context, id uint) error
	MarkTested(ctx context.Context, id uint, status, errorMessage string) error
}

// NewDatabaseConfigRepository creates a new GORM-based database config
// repository.
func NewDatabaseConfigRepository(db *gorm.DB) DatabaseConfigRepository {
	return &databaseConfigRepository{db: db}
}

type databaseConfigRepository struct {
	db *gorm.DB
}

// Create persists a new configuration row. Creating never touches the
// default flag on sibling rows; use SetDefault for that.
func (r *databaseConfigRepository) Create(ctx context.Context, config *entity.DatabaseConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

// FindAll retrieves every configuration row ordered by name.
func (r *databaseConfigRepository) FindAll(ctx context.Context) ([]entity.DatabaseConfig, error) {
	var configs []entity.DatabaseConfig
	if err := r.db.WithContext(ctx).Order("name").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// FindActiveDefault retrieves the active default row, or nil when none is
// configured.
func (r *databaseConfigRepository) FindActiveDefault(ctx context.Context) (*entity.DatabaseConfig, error) {
	var config entity.DatabaseConfig
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
// target in one transaction, so at most one default ever exists.
func (r *databaseConfigRepository) SetDefault(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.DatabaseConfig{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		result := tx.Model(&entity.DatabaseConfig{}).
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

// MarkTested records the outcome of a connection test.
func (r *databaseConfigRepository) MarkTested(ctx context.Context, id uint, status, errorMessage string) error {
	return r.db.WithContext(ctx).Model(&entity.DatabaseConfig{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"test_status":        status,
			"test_error_message": errorMessage,
			"last_tested":        gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}
