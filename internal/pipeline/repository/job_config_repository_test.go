package repository

import (
	"context"
	"testing"

	"sentiment-pipeline/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createJobConfig(t *testing.T, db *gorm.DB, name string, isActive, isDefault bool) *entity.JobConfig {
	t.Helper()
	cfg := &entity.JobConfig{
		Name:                  name,
		SyncIntervalMinutes:   60,
		SyncBatchSize:         1000,
		SentimentDelayMinutes: 5,
		SegmentDelayMinutes:   10,
		OverallDelayMinutes:   15,
		MaxRetries:            3,
		RetryDelayMinutes:     5,
		CleanupOldJobsDays:    30,
		IsActive:              isActive,
		IsDefault:             isDefault,
	}
	require.NoError(t, db.Create(cfg).Error)
	return cfg
}

func TestJobConfigFindActiveConfigPrefersActiveDefault(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobConfigRepository(db)
	ctx := context.Background()

	createJobConfig(t, db, "active-fallback", true, false)
	want := createJobConfig(t, db, "active-default", true, true)

	found, err := repo.FindActiveConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, want.ID, found.ID)
}

func TestJobConfigFindActiveConfigFallsBackToAnyActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobConfigRepository(db)
	ctx := context.Background()

	// The default profile is inactive, so the lowest-id active one wins.
	createJobConfig(t, db, "inactive-default", false, true)
	first := createJobConfig(t, db, "active-one", true, false)
	createJobConfig(t, db, "active-two", true, false)

	found, err := repo.FindActiveConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
}

func TestJobConfigFindActiveConfigNoneActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobConfigRepository(db)
	ctx := context.Background()

	createJobConfig(t, db, "disabled", false, true)

	found, err := repo.FindActiveConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestJobConfigSetDefaultMovesFlag(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobConfigRepository(db)
	ctx := context.Background()

	old := createJobConfig(t, db, "old-default", true, true)
	next := createJobConfig(t, db, "next-default", true, false)

	require.NoError(t, repo.SetDefault(ctx, next.ID))

	var stored entity.JobConfig
	require.NoError(t, db.First(&stored, old.ID).Error)
	assert.False(t, stored.IsDefault)
	require.NoError(t, db.First(&stored, next.ID).Error)
	assert.True(t, stored.IsDefault)

	assert.ErrorIs(t, repo.SetDefault(ctx, next.ID+1000), gorm.ErrRecordNotFound)
}
