package service

import (
	"context"
	"testing"
	"time"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSegmentService(db *gorm.DB) SegmentService {
	return NewSegmentService(
		repository.NewCustomerRepository(db),
		repository.NewSentimentScoreRepository(db),
		repository.NewSegmentSentimentRepository(db),
		newTestLogger(),
	)
}

func createScoreWithCounts(t *testing.T, db *gorm.DB, customerID uint, value float64, fnCount, fpCount int) {
	t.Helper()
	score := &entity.SentimentScore{
		JobID:                  uuid.New(),
		CustomerID:             customerID,
		SentimentScore:         value,
		AlgorithmUsed:          entity.AlgorithmSimpleRatio,
		CalculationWindowHours: 24,
		FNCountUsed:            fnCount,
		FPCountUsed:            fpCount,
		TrendDirection:         entity.TrendStable,
		CreatedAt:              time.Now().UTC(),
	}
	require.NoError(t, db.Create(score).Error)
}

func TestRunSegmentsAggregatesPerIndustry(t *testing.T) {
	db := newTestDB(t)
	techA := createTestCustomer(t, db, 1, "Technology")
	techB := createTestCustomer(t, db, 2, "Technology")
	finance := createTestCustomer(t, db, 3, "Finance")

	createScoreWithCounts(t, db, techA.ID, 0.8, 2, 8)
	createScoreWithCounts(t, db, techB.ID, 0.6, 4, 6)
	createScoreWithCounts(t, db, finance.ID, 0.9, 1, 9)

	svc := newSegmentService(db)
	require.NoError(t, svc.RunSegments(context.Background()))

	var tech entity.SegmentSentiment
	require.NoError(t, db.Where("segment = ?", "Technology").First(&tech).Error)
	assert.Equal(t, 2, tech.TotalCustomers)
	assert.Equal(t, 6, tech.TotalFNCount)
	assert.Equal(t, 14, tech.TotalFPCount)
	assert.InDelta(t, 0.7, tech.AverageSentiment, 1e-9)
	assert.InDelta(t, 0.8, tech.MedianSentiment, 1e-9) // upper of the two middle values
	assert.InDelta(t, 0.1, tech.SentimentStdDev, 1e-9) // population, not sample
	assert.Equal(t, entity.TrendStable, tech.TrendDirection)

	var fin entity.SegmentSentiment
	require.NoError(t, db.Where("segment = ?", "Finance").First(&fin).Error)
	assert.Equal(t, 1, fin.TotalCustomers)
	assert.InDelta(t, 0.9, fin.AverageSentiment, 1e-9)
}

func TestRunSegmentsSkipsIndustriesWithoutScores(t *testing.T) {
	db := newTestDB(t)
	createTestCustomer(t, db, 1, "Technology")

	svc := newSegmentService(db)
	require.NoError(t, svc.RunSegments(context.Background()))

	var count int64
	require.NoError(t, db.Model(&entity.SegmentSentiment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRunSegmentsCountsCustomersOnce(t *testing.T) {
	db := newTestDB(t)
	tech := createTestCustomer(t, db, 1, "Technology")

	createScoreWithCounts(t, db, tech.ID, 0.6, 1, 1)
	createScoreWithCounts(t, db, tech.ID, 0.8, 1, 1)

	svc := newSegmentService(db)
	require.NoError(t, svc.RunSegments(context.Background()))

	var snapshot entity.SegmentSentiment
	require.NoError(t, db.Where("segment = ?", "Technology").First(&snapshot).Error)
	assert.Equal(t, 1, snapshot.TotalCustomers)
	assert.InDelta(t, 0.7, snapshot.AverageSentiment, 1e-9)
}

func TestRunSegmentsTrendAgainstPreviousSnapshot(t *testing.T) {
	db := newTestDB(t)
	tech := createTestCustomer(t, db, 1, "Technology")
	createScoreWithCounts(t, db, tech.ID, 0.8, 2, 8)

	previous := &entity.SegmentSentiment{
		JobID:                  uuid.New(),
		Segment:                "Technology",
		TotalCustomers:         1,
		AverageSentiment:       0.5,
		MedianSentiment:        0.5,
		TrendDirection:         entity.TrendStable,
		CalculationWindowHours: 24,
		CreatedAt:              time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, db.Create(previous).Error)

	svc := newSegmentService(db)
	require.NoError(t, svc.RunSegments(context.Background()))

	var latest entity.SegmentSentiment
	require.NoError(t, db.Where("segment = ?", "Technology").Order("created_at DESC").First(&latest).Error)
	assert.Equal(t, entity.TrendImproving, latest.TrendDirection)
}
