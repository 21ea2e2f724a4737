package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// Stage run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// StageRunHistory records one scheduler-driven execution of a pipeline
// stage, with free-form JSON details (row counts, windows processed).
type StageRunHistory struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Stage        string         `json:"stage" gorm:"index;not null"`
	Status       string         `json:"status" gorm:"index;not null"`
	StartedAt    time.Time      `json:"started_at" gorm:"not null"`
	CompletedAt  sql.NullTime   `json:"completed_at"`
	ErrorMessage sql.NullString `json:"error_message"`
	Details      datatypes.JSON `json:"details" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index"`
}

func (StageRunHistory) TableName() string {
	return "stage_run_histories"
}
