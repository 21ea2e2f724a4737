package entity

import (
	"time"

	"github.com/google/uuid"
)

// OverallSentiment is an immutable product-wide snapshot aggregating all
// sentiment scores within a trailing window across every industry.
type OverallSentiment struct {
	ID                      uint      `json:"id" gorm:"primaryKey"`
	JobID                   uuid.UUID `json:"job_id" gorm:"type:uuid;uniqueIndex;not null"`
	TotalCustomers          int       `json:"total_customers" gorm:"not null"`
	TotalFNCount            int       `json:"total_fn_count" gorm:"column:total_fn_count;not null"`
	TotalFPCount            int       `json:"total_fp_count" gorm:"column:total_fp_count;not null"`
	OverallSentiment        float64   `json:"overall_sentiment" gorm:"not null"`
	WeightedSentiment       float64   `json:"weighted_sentiment" gorm:"not null"`
	SentimentVariance       float64   `json:"sentiment_variance" gorm:"not null"`
	TrendDirection          string    `json:"trend_direction" gorm:"not null"`
	TopPerformingSegment    string    `json:"top_performing_segment" gorm:"not null"`
	LowestPerformingSegment string    `json:"lowest_performing_segment" gorm:"not null"`
	CalculationWindowHours  int       `json:"calculation_window_hours" gorm:"not null;default:24"`
	CreatedAt               time.Time `json:"created_at" gorm:"index"`
}

func (OverallSentiment) TableName() string {
	return "overall_sentiment"
}

// TotalReports returns the combined FN + FP count across all customers.
func (o *OverallSentiment) TotalReports() int {
	return o.TotalFNCount + o.TotalFPCount
}
