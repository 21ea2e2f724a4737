package entity

import "time"

// Sentiment algorithm names as stored in configuration rows. Unrecognized
// names resolve to the simple-ratio algorithm at configuration load.
const (
	AlgorithmSimpleRatio     = "simple_ratio"
	AlgorithmWeightedAverage = "weighted_average"
)

// SentimentConfig is an admin-managed parameter set for the sentiment
// stage. The stage resolves the active default row per run and persists a
// fallback when none exists.
type SentimentConfig struct {
	ID                          uint      `json:"id" gorm:"primaryKey"`
	Name                        string    `json:"name" gorm:"uniqueIndex;not null"`
	DefaultAlgorithm            string    `json:"default_algorithm" gorm:"not null;default:weighted_average"`
	DefaultWindowHours          int       `json:"default_window_hours" gorm:"not null;default:24"`
	TimeDecayFactor             float64   `json:"time_decay_factor" gorm:"not null;default:0.9"`
	TrendWeight                 float64   `json:"trend_weight" gorm:"not null;default:0.2"`
	MinReportsForConfidence     int       `json:"min_reports_for_confidence" gorm:"not null;default:10"`
	EnableIndustryNormalization bool      `json:"enable_industry_normalization" gorm:"default:true"`
	IsActive                    bool      `json:"is_active" gorm:"index;default:true"`
	IsDefault                   bool      `json:"is_default" gorm:"index;default:false"`
	CreatedAt                   time.Time `json:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at"`
}

func (SentimentConfig) TableName() string {
	return "sentiment_configs"
}
