package entity

import (
	"time"

	"github.com/google/uuid"
)

// Trend labels shared by sentiment, segment and overall snapshots.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// SentimentScore is the computed sentiment for a single SyncJob. At most one
// score exists per sync job; the sentiment stage skips jobs that already
// have one. Immutable once created.
type SentimentScore struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	JobID                  uuid.UUID `json:"job_id" gorm:"type:uuid;uniqueIndex;not null"`
	CustomerID             uint      `json:"customer_id" gorm:"index;not null"`
	Customer               *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	SentimentScore         float64   `json:"sentiment_score" gorm:"not null"`
	AlgorithmUsed          string    `json:"algorithm_used" gorm:"index;not null"`
	CalculationWindowHours int       `json:"calculation_window_hours" gorm:"not null;default:24"`
	FNCountUsed            int       `json:"fn_count_used" gorm:"column:fn_count_used;not null"`
	FPCountUsed            int       `json:"fp_count_used" gorm:"column:fp_count_used;not null"`
	ConfidenceScore        float64   `json:"confidence_score" gorm:"not null"`
	TrendDirection         string    `json:"trend_direction" gorm:"not null"`
	CreatedAt              time.Time `json:"created_at" gorm:"index"`
}

func (SentimentScore) TableName() string {
	return "sentiment_scores"
}

// TotalReportsUsed returns the combined FN + FP count behind this score.
func (s *SentimentScore) TotalReportsUsed() int {
	return s.FNCountUsed + s.FPCountUsed
}

// SentimentLabel maps the numeric score onto a human-readable bucket.
func SentimentLabel(score float64) string {
	switch {
	case score >= 0.8:
		return "Very Positive"
	case score >= 0.6:
		return "Positive"
	case score >= 0.4:
		return "Neutral"
	case score >= 0.2:
		return "Negative"
	default:
		return "Very Negative"
	}
}
