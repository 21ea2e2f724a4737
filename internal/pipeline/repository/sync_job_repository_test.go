package repository

import (
	"context"
	"testing"
	"time"

	"sentiment-pipeline/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncJobSumCountsSince(t *testing.T) {
	db := newTestDB(t)
	repo := NewSyncJobRepository(db)
	ctx := context.Background()

	customer := createCustomer(t, db, 1, "Technology")
	since := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	createJob(t, db, customer.ID, since, 3, 7, entity.StatusCompleted)
	createJob(t, db, customer.ID, since.Add(time.Hour), 2, 4, entity.StatusCompleted)
	// Failed jobs and windows before the bound do not count.
	createJob(t, db, customer.ID, since.Add(2*time.Hour), 100, 100, entity.StatusFailed)
	createJob(t, db, customer.ID, since.Add(-time.Hour), 50, 50, entity.StatusCompleted)

	fnTotal, fpTotal, err := repo.SumCountsSince(ctx, since)
	require.NoError(t, err)
	assert.EqualValues(t, 5, fnTotal)
	assert.EqualValues(t, 11, fpTotal)
}

func TestSyncJobSumCountsSinceEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewSyncJobRepository(db)

	fnTotal, fpTotal, err := repo.SumCountsSince(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, fnTotal)
	assert.Zero(t, fpTotal)
}

func TestSyncJobExistsCompletedForWindow(t *testing.T) {
	db := newTestDB(t)
	repo := NewSyncJobRepository(db)
	ctx := context.Background()

	customer := createCustomer(t, db, 1, "Technology")
	windowStart := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	exists, err := repo.ExistsCompletedForWindow(ctx, windowStart)
	require.NoError(t, err)
	assert.False(t, exists)

	createJob(t, db, customer.ID, windowStart, 1, 1, entity.StatusFailed)
	exists, err = repo.ExistsCompletedForWindow(ctx, windowStart)
	require.NoError(t, err)
	assert.False(t, exists)

	createJob(t, db, createCustomer(t, db, 2, "Finance").ID, windowStart, 1, 1, entity.StatusCompleted)
	exists, err = repo.ExistsCompletedForWindow(ctx, windowStart)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSyncJobCountByStatusSince(t *testing.T) {
	db := newTestDB(t)
	repo := NewSyncJobRepository(db)
	ctx := context.Background()

	customer := createCustomer(t, db, 1, "Technology")
	base := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	createJob(t, db, customer.ID, base, 1, 1, entity.StatusCompleted)
	createJob(t, db, customer.ID, base.Add(time.Hour), 1, 1, entity.StatusCompleted)
	createJob(t, db, customer.ID, base.Add(2*time.Hour), 1, 1, entity.StatusFailed)

	counts, err := repo.CountByStatusSince(ctx, time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[entity.StatusCompleted])
	assert.EqualValues(t, 1, counts[entity.StatusFailed])
}

func TestSyncJobFindInRangeFiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewSyncJobRepository(db)
	ctx := context.Background()

	customer := createCustomer(t, db, 1, "Technology")
	base := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	createJob(t, db, customer.ID, base, 1, 1, entity.StatusCompleted)
	createJob(t, db, customer.ID, base.Add(time.Hour), 1, 1, entity.StatusFailed)
	// Window start equal to the upper bound is excluded.
	createJob(t, db, customer.ID, base.Add(3*time.Hour), 1, 1, entity.StatusCompleted)

	jobs, err := repo.FindInRange(ctx, base, base.Add(3*time.Hour), "")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, base.Add(time.Hour), jobs[0].WindowStart.UTC())

	jobs, err = repo.FindInRange(ctx, base, base.Add(3*time.Hour), entity.StatusFailed)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, entity.StatusFailed, jobs[0].Status)
}

func TestSyncJobFindRecentByCustomerOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewSyncJobRepository(db)
	ctx := context.Background()

	customer := createCustomer(t, db, 1, "Technology")
	other := createCustomer(t, db, 2, "Finance")
	base := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	createJob(t, db, customer.ID, base, 1, 1, entity.StatusCompleted)
	createJob(t, db, customer.ID, base.Add(time.Hour), 2, 2, entity.StatusCompleted)
	createJob(t, db, other.ID, base.Add(time.Hour), 9, 9, entity.StatusCompleted)

	jobs, err := repo.FindRecentByCustomer(ctx, customer.ID, base)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, base.Add(time.Hour), jobs[0].WindowStart.UTC())
	assert.Equal(t, base, jobs[1].WindowStart.UTC())
}
