package entity

import "time"

// JobConfig is an admin-managed timing profile for the scheduler. The
// sync interval drives all four stages; the per-stage delays offset only
// each stage's first run after scheduler start.
type JobConfig struct {
	ID                    uint      `json:"id" gorm:"primaryKey"`
	Name                  string    `json:"name" gorm:"uniqueIndex;not null"`
	SyncIntervalMinutes   int       `json:"sync_interval_minutes" gorm:"not null;default:60"`
	SyncBatchSize         int       `json:"sync_batch_size" gorm:"not null;default:1000"`
	SentimentDelayMinutes int       `json:"sentiment_delay_minutes" gorm:"not null;default:5"`
	SegmentDelayMinutes   int       `json:"segment_delay_minutes" gorm:"not null;default:10"`
	OverallDelayMinutes   int       `json:"overall_delay_minutes" gorm:"not null;default:15"`
	MaxRetries            int       `json:"max_retries" gorm:"not null;default:3"`
	RetryDelayMinutes     int       `json:"retry_delay_minutes" gorm:"not null;default:5"`
	CleanupOldJobsDays    int       `json:"cleanup_old_jobs_days" gorm:"not null;default:30"`
	IsActive              bool      `json:"is_active" gorm:"index;default:true"`
	IsDefault             bool      `json:"is_default" gorm:"index;default:false"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (JobConfig) TableName() string {
	return "job_configs"
}
