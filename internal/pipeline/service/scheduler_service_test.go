package service

import (
	"context"
	"testing"
	"time"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/pkg/common"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestScheduler(t *testing.T, db *gorm.DB) SchedulerService {
	t.Helper()
	conn := &fakeConnector{}
	return NewSchedulerService(
		repository.NewJobConfigRepository(db),
		repository.NewStageRunHistoryRepository(db),
		newSyncService(db, conn),
		newSentimentService(db),
		newSegmentService(db),
		newOverallService(db, nil),
		nil, 0,
		newTestLogger(),
	)
}

func createJobConfig(t *testing.T, db *gorm.DB) *entity.JobConfig {
	t.Helper()
	cfg := &entity.JobConfig{
		Name:                  "default",
		SyncIntervalMinutes:   60,
		SentimentDelayMinutes: 5,
		SegmentDelayMinutes:   10,
		OverallDelayMinutes:   15,
		IsActive:              true,
		IsDefault:             true,
	}
	require.NoError(t, db.Create(cfg).Error)
	return cfg
}

func TestSchedulerStatusWhenStopped(t *testing.T) {
	db := newTestDB(t)
	scheduler := newTestScheduler(t, db)

	status := scheduler.Status()
	assert.Equal(t, "stopped", status.Status)
	assert.Empty(t, status.Jobs)
}

func TestSchedulerStartsWithoutConfig(t *testing.T) {
	db := newTestDB(t)
	scheduler := newTestScheduler(t, db)

	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()

	status := scheduler.Status()
	assert.Equal(t, "running", status.Status)
	assert.Empty(t, status.Jobs)
}

func TestSchedulerRegistersFourJobs(t *testing.T) {
	db := newTestDB(t)
	createJobConfig(t, db)
	scheduler := newTestScheduler(t, db)

	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()

	status := scheduler.Status()
	assert.Equal(t, "running", status.Status)
	require.Len(t, status.Jobs, 4)

	ids := make(map[string]bool, len(status.Jobs))
	for _, job := range status.Jobs {
		ids[job.ID] = true
		require.NotNil(t, job.NextRunTime, "job %s has no next run", job.ID)
		assert.NotEmpty(t, job.Trigger)
	}
	assert.True(t, ids[common.JobIDSync])
	assert.True(t, ids[common.JobIDSentiment])
	assert.True(t, ids[common.JobIDSegment])
	assert.True(t, ids[common.JobIDOverall])
}

func TestSchedulerDelaysOffsetOnlyFirstRun(t *testing.T) {
	db := newTestDB(t)
	createJobConfig(t, db)
	scheduler := newTestScheduler(t, db)

	start := time.Now()
	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()

	var syncNext, sentimentNext time.Time
	for _, job := range scheduler.Status().Jobs {
		switch job.ID {
		case common.JobIDSync:
			syncNext = *job.NextRunTime
		case common.JobIDSentiment:
			sentimentNext = *job.NextRunTime
		}
	}

	// Sync fires immediately; sentiment waits its configured 5 minutes.
	assert.WithinDuration(t, start, syncNext, 5*time.Second)
	assert.WithinDuration(t, start.Add(5*time.Minute), sentimentNext, 5*time.Second)
}

func TestSchedulerRunJobNow(t *testing.T) {
	db := newTestDB(t)
	createJobConfig(t, db)
	scheduler := newTestScheduler(t, db)

	assert.False(t, scheduler.RunJobNow(common.JobIDSync), "trigger must fail while stopped")

	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()

	assert.True(t, scheduler.RunJobNow(common.JobIDSync))
	assert.False(t, scheduler.RunJobNow("no_such_job"))
}

func TestSchedulerRunAllOnceRecordsHistory(t *testing.T) {
	db := newTestDB(t)
	scheduler := newTestScheduler(t, db)

	scheduler.RunAllOnce(context.Background())

	var histories []entity.StageRunHistory
	require.NoError(t, db.Order("id").Find(&histories).Error)
	require.Len(t, histories, 4)

	expected := []string{common.StageSync, common.StageSentiment, common.StageSegment, common.StageOverall}
	for i, history := range histories {
		assert.Equal(t, expected[i], history.Stage)
		assert.Equal(t, entity.RunStatusCompleted, history.Status)
		assert.True(t, history.CompletedAt.Valid)
		assert.False(t, history.ErrorMessage.Valid)
	}
}

func TestFirstDelayScheduleSettlesIntoInterval(t *testing.T) {
	first := time.Now().Add(10 * time.Minute)
	schedule := firstDelaySchedule{
		first:    first,
		interval: cron.ConstantDelaySchedule{Delay: time.Hour},
	}

	next := schedule.Next(time.Now())
	assert.True(t, next.Equal(first))

	afterFirst := schedule.Next(first.Add(time.Second))
	assert.True(t, afterFirst.After(first.Add(30*time.Minute)))
}
