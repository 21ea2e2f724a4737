package repository

import (
	"context"
	"time"

	"sentiment-pipeline/internal/entity"

	"gorm.io/gorm"
)

// SyncJobRepository defines the interface for sync job data operations.
type SyncJobRepository interface {
	Create(ctx context.Context, job *entity.SyncJob) error
	Count(ctx context.Context) (int64, error)
	ExistsCompletedForWindow(ctx context.Context, windowStart time.Time) (bool, error)
	FindCompleted(ctx context.Context) ([]entity.SyncJob, error)
	FindRecentByCustomer(ctx context.Context, customerID uint, since time.Time) ([]entity.SyncJob, error)
	FindInRange(ctx context.Context, from, to time.Time, status string) ([]entity.SyncJob, error)
	CountByStatusSince(ctx context.Context, since time.Time) (map[string]int64, error)
	SumCountsSince(ctx context.Context, since time.Time) (fnTotal, fpTotal int64, err error)
}

// NewSyncJobRepository creates a new GORM-based sync job repository.
func NewSyncJobRepository(db *gorm.DB) SyncJobRepository {
	return &syncJobRepository{db: db}
}

type syncJobRepository struct {
	db *gorm.DB
}

// Create persists a new sync job row.
func (r *syncJobRepository) Create(ctx context.Context, job *entity.SyncJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// Count returns the total number of sync job rows. A zero count is the
// first-run signal that triggers the historical backfill.
func (r *syncJobRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.SyncJob{}).Count(&count).Error
	return count, err
}

// ExistsCompletedForWindow reports whether any completed job already
// covers the window starting at windowStart.
func (r *syncJobRepository) ExistsCompletedForWindow(ctx context.Context, windowStart time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.SyncJob{}).
		Where("window_start = ? AND status = ?", windowStart, entity.StatusCompleted).
		Count(&count).Error
	return count > 0, err
}

// FindCompleted retrieves all completed sync jobs with their customers.
func (r *syncJobRepository) FindCompleted(ctx context.Context) ([]entity.SyncJob, error) {
	var jobs []entity.SyncJob
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("status = ?", entity.StatusCompleted).
		Order("window_start").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindRecentByCustomer retrieves a customer's completed jobs whose window
// starts at or after since, newest window first.
func (r *syncJobRepository) FindRecentByCustomer(ctx context.Context, customerID uint, since time.Time) ([]entity.SyncJob, error) {
	var jobs []entity.SyncJob
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ? AND window_start >= ?", customerID, entity.StatusCompleted, since).
		Order("window_start DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindInRange retrieves jobs whose window starts inside [from, to),
// optionally filtered by status.
func (r *syncJobRepository) FindInRange(ctx context.Context, from, to time.Time, status string) ([]entity.SyncJob, error) {
	q := r.db.WithContext(ctx).
		Preload("Customer").
		Where("window_start >= ? AND window_start < ?", from, to)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var jobs []entity.SyncJob
	if err := q.Order("window_start DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// CountByStatusSince groups job counts by status for rows created at or
// after since.
func (r *syncJobRepository) CountByStatusSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&entity.SyncJob{}).
		Select("status, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SumCountsSince totals FN and FP report counts over completed jobs
// whose window starts at or after since.
func (r *syncJobRepository) SumCountsSince(ctx context.Context, since time.Time) (int64, int64, error) {
	type sums struct {
		FNTotal int64
		FPTotal int64
	}
	var row sums
	err := r.db.WithContext(ctx).
		Model(&entity.SyncJob{}).
		Select("COALESCE(SUM(fn_count), 0) AS fn_total, COALESCE(SUM(fp_count), 0) AS fp_total").
		Where("status = ? AND window_start >= ?", entity.StatusCompleted, since).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.FNTotal, row.FPTotal, nil
}
