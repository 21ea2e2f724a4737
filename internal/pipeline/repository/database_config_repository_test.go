package repository

import (
	"context"
	"testing"

	"sentiment-pipeline/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createDBConfig(t *testing.T, db *gorm.DB, name string, isActive, isDefault bool) *entity.DatabaseConfig {
	t.Helper()
	cfg := &entity.DatabaseConfig{
		Name:         name,
		Host:         "localhost",
		Port:         5432,
		DatabaseName: "source",
		Username:     "reader",
		Password:     "secret",
		IsActive:     isActive,
		IsDefault:    isDefault,
		TestStatus:   entity.TestStatusNotTested,
	}
	require.NoError(t, db.Create(cfg).Error)
	return cfg
}

func TestDatabaseConfigFindActiveDefault(t *testing.T) {
	db := newTestDB(t)
	repo := NewDatabaseConfigRepository(db)
	ctx := context.Background()

	found, err := repo.FindActiveDefault(ctx)
	require.NoError(t, err)
	assert.Nil(t, found)

	createDBConfig(t, db, "inactive-default", false, true)
	createDBConfig(t, db, "active-non-default", true, false)
	want := createDBConfig(t, db, "active-default", true, true)

	found, err = repo.FindActiveDefault(ctx)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, want.ID, found.ID)
}

func TestDatabaseConfigSetDefaultClearsSiblings(t *testing.T) {
	db := newTestDB(t)
	repo := NewDatabaseConfigRepository(db)
	ctx := context.Background()

	old := createDBConfig(t, db, "old-default", true, true)
	next := createDBConfig(t, db, "next-default", true, false)

	require.NoError(t, repo.SetDefault(ctx, next.ID))

	var defaults []entity.DatabaseConfig
	require.NoError(t, db.Where("is_default = ?", true).Find(&defaults).Error)
	require.Len(t, defaults, 1)
	assert.Equal(t, next.ID, defaults[0].ID)

	var previous entity.DatabaseConfig
	require.NoError(t, db.First(&previous, old.ID).Error)
	assert.False(t, previous.IsDefault)
}

func TestDatabaseConfigSetDefaultUnknownIDRollsBack(t *testing.T) {
	db := newTestDB(t)
	repo := NewDatabaseConfigRepository(db)
	ctx := context.Background()

	existing := createDBConfig(t, db, "only-default", true, true)

	err := repo.SetDefault(ctx, existing.ID+1000)
	require.Error(t, err)

	// The transaction rolled back, so the old default still holds.
	var stored entity.DatabaseConfig
	require.NoError(t, db.First(&stored, existing.ID).Error)
	assert.True(t, stored.IsDefault)
}

func TestDatabaseConfigMarkTested(t *testing.T) {
	db := newTestDB(t)
	repo := NewDatabaseConfigRepository(db)
	ctx := context.Background()

	cfg := createDBConfig(t, db, "probe", true, true)

	require.NoError(t, repo.MarkTested(ctx, cfg.ID, entity.TestStatusFailed, "connection refused"))

	var stored entity.DatabaseConfig
	require.NoError(t, db.First(&stored, cfg.ID).Error)
	assert.Equal(t, entity.TestStatusFailed, stored.TestStatus)
	assert.Equal(t, "connection refused", stored.TestErrorMessage)
	assert.NotNil(t, stored.LastTested)
}
