package entity

import "time"

// IndustryBaseline holds admin-curated reference values per industry,
// intended for future score normalization. The pipeline only reads these.
type IndustryBaseline struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Industry          string    `json:"industry" gorm:"uniqueIndex;not null"`
	BaselineSentiment float64   `json:"baseline_sentiment" gorm:"not null"`
	FNFPRatioBaseline float64   `json:"fn_fp_ratio_baseline" gorm:"column:fn_fp_ratio_baseline;not null"`
	VolatilityFactor  float64   `json:"volatility_factor" gorm:"not null;default:1.0"`
	Description       string    `json:"description"`
	IsActive          bool      `json:"is_active" gorm:"index;default:true"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (IndustryBaseline) TableName() string {
	return "industry_baselines"
}
