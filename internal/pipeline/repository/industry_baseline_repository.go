package repository

import (
	"context"

	"sentiment-pipeline/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IndustryBaselineRepository defines the interface for baseline reference
// data. The pipeline reads these; writes happen via admin tooling and the
// seed command.
type IndustryBaselineRepository interface {
	Upsert(ctx context.Context, baseline *entity.IndustryBaseline) error
	FindActive(ctx context.Context) ([]entity.IndustryBaseline, error)
	FindByIndustry(ctx context.Context, industry string) (*entity.IndustryBaseline, error)
}

// NewIndustryBaselineRepository creates a new GORM-based baseline
// repository.
func NewIndustryBaselineRepository(db *gorm.DB) IndustryBaselineRepository {
	return &industryBaselineRepository{db: db}
}

type industryBaselineRepository struct {
	db *gorm.DB
}

// Upsert inserts the baseline or overwrites the row for its industry.
func (r *industryBaselineRepository) Upsert(ctx context.Context, baseline *entity.IndustryBaseline) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "industry"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"baseline_sentiment", "fn_fp_ratio_baseline", "volatility_factor",
			"description", "is_active", "updated_at",
		}),
	}).Create(baseline).Error
}

// FindActive retrieves all active baselines ordered by industry.
func (r *industryBaselineRepository) FindActive(ctx context.Context) ([]entity.IndustryBaseline, error) {
	var baselines []entity.IndustryBaseline
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("industry").
		Find(&baselines).Error
	if err != nil {
		return nil, err
	}
	return baselines, nil
}

// FindByIndustry retrieves the baseline for one industry, or nil when no
// baseline has been curated for it.
func (r *industryBaselineRepository) FindByIndustry(ctx context.Context, industry string) (*entity.IndustryBaseline, error) {
	var baseline entity.IndustryBaseline
	err := r.db.WithContext(ctx).Where("industry = ?", industry).First(&baseline).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &baseline, nil
}
