package entity

import (
	"time"

	"github.com/google/uuid"
)

// SyncJob statuses. The scheduled pipeline performs a synchronous
// fetch-then-write, so rows are created directly in StatusCompleted;
// the remaining states exist for manual repair tooling.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// SyncJob is one immutable record of the raw FN/FP counts observed for a
// customer in a 1-hour half-open window. At most one row exists per
// (customer, window_start, window_end).
type SyncJob struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	JobID        uuid.UUID  `json:"job_id" gorm:"type:uuid;uniqueIndex;not null"`
	CustomerID   uint       `json:"customer_id" gorm:"not null;uniqueIndex:idx_sync_jobs_window,priority:1"`
	Customer     *Customer  `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	WindowStart  time.Time  `json:"window_start" gorm:"not null;uniqueIndex:idx_sync_jobs_window,priority:2;index"`
	WindowEnd    time.Time  `json:"window_end" gorm:"not null;uniqueIndex:idx_sync_jobs_window,priority:3"`
	FNCount      int        `json:"fn_count" gorm:"column:fn_count;not null;default:0"`
	FPCount      int        `json:"fp_count" gorm:"column:fp_count;not null;default:0"`
	Status       string     `json:"status" gorm:"index;not null;default:pending"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (SyncJob) TableName() string {
	return "sync_jobs"
}

// TotalReports returns the combined FN + FP count for the window.
func (j *SyncJob) TotalReports() int {
	return j.FNCount + j.FPCount
}
