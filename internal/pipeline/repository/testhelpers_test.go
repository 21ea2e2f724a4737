package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"sentiment-pipeline/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.Customer{},
		&entity.SyncJob{},
		&entity.SentimentScore{},
		&entity.SegmentSentiment{},
		&entity.OverallSentiment{},
		&entity.IndustryBaseline{},
		&entity.DatabaseConfig{},
		&entity.SentimentConfig{},
		&entity.JobConfig{},
		&entity.StageRunHistory{},
	))
	return db
}

func createCustomer(t *testing.T, db *gorm.DB, externalID int64, industry string) *entity.Customer {
	t.Helper()
	customer := &entity.Customer{
		CustomerID:  externalID,
		CompanyName: fmt.Sprintf("Company %d", externalID),
		Industry:    industry,
		IsActive:    true,
		SyncedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func createJob(t *testing.T, db *gorm.DB, customerID uint, windowStart time.Time, fnCount, fpCount int, status string) *entity.SyncJob {
	t.Helper()
	job := &entity.SyncJob{
		JobID:       uuid.New(),
		CustomerID:  customerID,
		WindowStart: windowStart,
		WindowEnd:   windowStart.Add(time.Hour),
		FNCount:     fnCount,
		FPCount:     fpCount,
		Status:      status,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}
