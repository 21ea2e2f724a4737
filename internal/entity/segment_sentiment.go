package entity

import (
	"time"

	"github.com/google/uuid"
)

// SegmentSentiment is an immutable per-industry snapshot aggregating all
// sentiment scores for that industry within a trailing window.
type SegmentSentiment struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	JobID                  uuid.UUID `json:"job_id" gorm:"type:uuid;uniqueIndex;not null"`
	Segment                string    `json:"segment" gorm:"index;not null"`
	TotalCustomers         int       `json:"total_customers" gorm:"not null"`
	TotalFNCount           int       `json:"total_fn_count" gorm:"column:total_fn_count;not null"`
	TotalFPCount           int       `json:"total_fp_count" gorm:"column:total_fp_count;not null"`
	AverageSentiment       float64   `json:"average_sentiment" gorm:"not null"`
	MedianSentiment        float64   `json:"median_sentiment" gorm:"not null"`
	SentimentStdDev        float64   `json:"sentiment_std_dev" gorm:"not null"`
	TrendDirection         string    `json:"trend_direction" gorm:"not null"`
	CalculationWindowHours int       `json:"calculation_window_hours" gorm:"not null;default:24"`
	CreatedAt              time.Time `json:"created_at" gorm:"index"`
}

func (SegmentSentiment) TableName() string {
	return "segment_sentiment"
}

// TotalReports returns the combined FN + FP count for the segment window.
func (s *SegmentSentiment) TotalReports() int {
	return s.TotalFNCount + s.TotalFPCount
}
