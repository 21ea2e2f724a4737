package service

import (
	"context"
	"testing"
	"time"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSentimentService(db *gorm.DB) SentimentService {
	return NewSentimentService(
		repository.NewSyncJobRepository(db),
		repository.NewSentimentScoreRepository(db),
		repository.NewSentimentConfigRepository(db),
		newTestLogger(),
	)
}

func createSentimentConfig(t *testing.T, db *gorm.DB, algorithm string, decay float64, minReports int) *entity.SentimentConfig {
	t.Helper()
	cfg := &entity.SentimentConfig{
		Name:                    "test-" + algorithm,
		DefaultAlgorithm:        algorithm,
		DefaultWindowHours:      24,
		TimeDecayFactor:         decay,
		TrendWeight:             0.2,
		MinReportsForConfidence: minReports,
		IsActive:                true,
		IsDefault:               true,
	}
	require.NoError(t, db.Create(cfg).Error)
	return cfg
}

func scoreForJob(t *testing.T, db *gorm.DB, jobID uuid.UUID) *entity.SentimentScore {
	t.Helper()
	var score entity.SentimentScore
	require.NoError(t, db.Where("job_id = ?", jobID).First(&score).Error)
	return &score
}

func TestSimpleRatioScore(t *testing.T) {
	db := newTestDB(t)
	createSentimentConfig(t, db, entity.AlgorithmSimpleRatio, 1.0, 5)
	customer := createTestCustomer(t, db, 1, "Technology")

	windowStart, _ := utils.HourWindow(time.Now())
	job := createCompletedJob(t, db, customer.ID, windowStart, 2, 8)

	svc := newSentimentService(db)
	require.NoError(t, svc.RunSentiment(context.Background()))

	score := scoreForJob(t, db, job.JobID)
	assert.InDelta(t, 0.8, score.SentimentScore, 1e-9)
	assert.Equal(t, entity.AlgorithmSimpleRatio, score.AlgorithmUsed)
	assert.Equal(t, 2, score.FNCountUsed)
	assert.Equal(t, 8, score.FPCountUsed)
	assert.InDelta(t, 1.0, score.ConfidenceScore, 1e-9) // 10 reports vs 5 minimum, capped
	assert.Equal(t, entity.TrendStable, score.TrendDirection)
}

func TestZeroReportsScoreNeutral(t *testing.T) {
	db := newTestDB(t)
	createSentimentConfig(t, db, entity.AlgorithmSimpleRatio, 1.0, 5)
	customer := createTestCustomer(t, db, 1, "Technology")

	windowStart, _ := utils.HourWindow(time.Now())
	job := createCompletedJob(t, db, customer.ID, windowStart, 0, 0)

	svc := newSentimentService(db)
	require.NoError(t, svc.RunSentiment(context.Background()))

	score := scoreForJob(t, db, job.JobID)
	assert.InDelta(t, 0.5, score.SentimentScore, 1e-9)
	assert.Zero(t, score.ConfidenceScore)
}

func TestConfidenceScalesWithVolume(t *testing.T) {
	db := newTestDB(t)
	createSentimentConfig(t, db, entity.AlgorithmSimpleRatio, 1.0, 10)
	customer := createTestCustomer(t, db, 1, "Technology")

	windowStart, _ := utils.HourWindow(time.Now())
	job := createCompletedJob(t, db, customer.ID, windowStart, 1, 4)

	svc := newSentimentService(db)
	require.NoError(t, svc.RunSentiment(context.Background()))

	score := scoreForJob(t, db, job.JobID)
	assert.InDelta(t, 0.5, score.ConfidenceScore, 1e-9) // 5 reports vs 10 minimum
}

func TestRunSentimentSkipsAlreadyScoredJobs(t *testing.T) {
	db := newTestDB(t)
	createSentimentConfig(t, db, entity.AlgorithmSimpleRatio, 1.0, 5)
	customer := createTestCustomer(t, db, 1, "Technology")

	windowStart, _ := utils.HourWindow(time.Now())
	createCompletedJob(t, db, customer.ID, windowStart, 2, 8)

	svc := newSentimentService(db)
	require.NoError(t, svc.RunSentiment(context.Background()))
	require.NoError(t, svc.RunSentiment(context.Background()))

	var count int64
	require.NoError(t, db.Model(&entity.SentimentScore{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRunSentimentCreatesDefaultConfigWhenMissing(t *testing.T) {
	db := newTestDB(t)

	svc := newSentimentService(db)
	require.NoError(t, svc.RunSentiment(context.Background()))

	var cfg entity.SentimentConfig
	require.NoError(t, db.Where("is_default = ?", true).First(&cfg).Error)
	assert.Equal(t, entity.AlgorithmWeightedAverage, cfg.DefaultAlgorithm)
	assert.Equal(t, 24, cfg.DefaultWindowHours)
	assert.InDelta(t, 0.9, cfg.TimeDecayFactor, 1e-9)
	assert.Equal(t, 5, cfg.MinReportsForConfidence)
	assert.True(t, cfg.IsActive)
}

func TestWeightedAverageWithUnitDecayIsPlainMean(t *testing.T) {
	db := newTestDB(t)
	createSentimentConfig(t, db, entity.AlgorithmWeightedAverage, 1.0, 5)
	customer := createTestCustomer(t, db, 1, "Technology")

	windowStart, _ := utils.HourWindow(time.Now())
	createCompletedJob(t, db, customer.ID, windowStart.Add(-time.Hour), 4, 6) // ratio 0.6
	newest := createCompletedJob(t, db, customer.ID, windowStart, 2, 8)       // ratio 0.8

	svc := newSentimentService(db)
	require.NoError(t, svc.RunSentiment(context.Background()))

	score := scoreForJob(t, db, newest.JobID)
	assert.InDelta(t, 0.7, score.SentimentScore, 1e-9)
	assert.Equal(t, entity.AlgorithmWeightedAverage, score.AlgorithmUsed)
}

func TestWeightedAverageDecayFavorsNewestWindow(t *testing.T) {
	db := newTestDB(t)
	createSentimentConfig(t, db, entity.AlgorithmWeightedAverage, 0.5, 5)
	customer := createTestCustomer(t, db, 1, "Technology")

	windowStart, _ := utils.HourWindow(time.Now())
	createCompletedJob(t, db, customer.ID, windowStart.Add(-time.Hour), 10, 0) // ratio 0.0
	newest := createCompletedJob(t, db, customer.ID, windowStart, 0, 10)       // ratio 1.0

	svc := newSentimentService(db)
	require.NoError(t, svc.RunSentiment(context.Background()))

	// Weights 1 and 0.5 over ratios 1.0 and 0.0.
	score := scoreForJob(t, db, newest.JobID)
	assert.InDelta(t, 1.0/1.5, score.SentimentScore, 1e-9)
}

func TestWeightedAverageAllZeroReportWindowsIsNeutral(t *testing.T) {
	db := newTestDB(t)
	createSentimentConfig(t, db, entity.AlgorithmWeightedAverage, 0.9, 5)
	customer := createTestCustomer(t, db, 1, "Technology")

	windowStart, _ := utils.HourWindow(time.Now())
	job := createCompletedJob(t, db, customer.ID, windowStart, 0, 0)

	svc := newSentimentService(db)
	require.NoError(t, svc.RunSentiment(context.Background()))

	score := scoreForJob(t, db, job.JobID)
	assert.InDelta(t, 0.5, score.SentimentScore, 1e-9)
}

func createStoredScore(t *testing.T, db *gorm.DB, customerID uint, value float64, createdAt time.Time) {
	t.Helper()
	score := &entity.SentimentScore{
		JobID:                  uuid.New(),
		CustomerID:             customerID,
		SentimentScore:         value,
		AlgorithmUsed:          entity.AlgorithmSimpleRatio,
		CalculationWindowHours: 24,
		TrendDirection:         entity.TrendStable,
		CreatedAt:              createdAt,
	}
	require.NoError(t, db.Create(score).Error)
}

func TestCustomerTrendImprovingDecliningStable(t *testing.T) {
	now := time.Now().UTC()
	cases := []struct {
		name     string
		history  []float64 // newest last
		expected string
	}{
		{"improving", []float64{0.5, 1.0}, entity.TrendImproving},
		{"declining", []float64{1.0, 0.5}, entity.TrendDeclining},
		{"within threshold", []float64{0.5, 0.51}, entity.TrendStable},
		{"single prior score", []float64{0.5}, entity.TrendStable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			createSentimentConfig(t, db, entity.AlgorithmSimpleRatio, 1.0, 5)
			customer := createTestCustomer(t, db, 1, "Technology")

			for i, value := range tc.history {
				createStoredScore(t, db, customer.ID, value, now.Add(time.Duration(i-10)*time.Minute))
			}

			windowStart, _ := utils.HourWindow(time.Now())
			job := createCompletedJob(t, db, customer.ID, windowStart, 2, 8)

			svc := newSentimentService(db)
			require.NoError(t, svc.RunSentiment(context.Background()))

			score := scoreForJob(t, db, job.JobID)
			assert.Equal(t, tc.expected, score.TrendDirection)
		})
	}
}
