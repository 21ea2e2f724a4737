package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/pkg/logger"
)

// SentimentService computes a sentiment score for every completed sync
// job that does not have one yet.
type SentimentService interface {
	RunSentiment(ctx context.Context) error
}

// NewSentimentService creates a new sentiment stage service.
func NewSentimentService(
	syncJobRepo repository.SyncJobRepository,
	scoreRepo repository.SentimentScoreRepository,
	sentimentConfigRepo repository.SentimentConfigRepository,
	logger *logger.Logger,
) SentimentService {
	return &sentimentService{
		syncJobRepo:         syncJobRepo,
		scoreRepo:           scoreRepo,
		sentimentConfigRepo: sentimentConfigRepo,
		logger:              logger,
	}
}

type sentimentService struct {
	syncJobRepo         repository.SyncJobRepository
	scoreRepo           repository.SentimentScoreRepository
	sentimentConfigRepo repository.SentimentConfigRepository
	logger              *logger.Logger
}

// RunSentiment executes one sentiment pass. Each score write is atomic
// and skip-if-exists, so partial completion across the batch is safe and
// repeat runs never double-score a job.
func (s *sentimentService) RunSentiment(ctx context.Context) error {
	s.logger.Info("Starting sentiment calculation")

	cfg, err := s.resolveConfig(ctx)
	if err != nil {
		return err
	}
	algorithm := ParseAlgorithm(cfg.DefaultAlgorithm)

	// Existence is checked per job. O(n) lookups, acceptable at current
	// volumes; revisit with an anti-join once job counts grow.
	jobs, err := s.syncJobRepo.FindCompleted(ctx)
	if err != nil {
		return fmt.Errorf("failed to list completed sync jobs: %w", err)
	}

	created := 0
	for i := range jobs {
		job := &jobs[i]

		exists, err := s.scoreRepo.ExistsForJob(ctx, job.JobID)
		if err != nil {
			s.logger.Error("Score existence check failed",
				logger.ErrorField(err), logger.Field("job_id", job.JobID))
			continue
		}
		if exists {
			continue
		}

		score, err := s.scoreJob(ctx, job, cfg, algorithm)
		if err != nil {
			s.logger.Error("Failed to calculate sentiment for job",
				logger.ErrorField(err), logger.Field("job_id", job.JobID))
			continue
		}
		if err := s.scoreRepo.Create(ctx, score); err != nil {
			s.logger.Error("Failed to store sentiment score",
				logger.ErrorField(err), logger.Field("job_id", job.JobID))
			continue
		}
		created++
	}

	s.logger.Info("Sentiment calculation completed", logger.Field("scores_created", created))
	return nil
}

// resolveConfig loads the active default configuration, persisting a
// fallback when none exists so later runs see the same parameters.
func (s *sentimentService) resolveConfig(ctx context.Context) (*entity.SentimentConfig, error) {
	cfg, err := s.sentimentConfigRepo.FindActiveDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentiment config: %w", err)
	}
	if cfg != nil {
		return cfg, nil
	}

	s.logger.Warn("No active sentiment configuration found, creating default")
	cfg = &entity.SentimentConfig{
		Name:                    "Default Configuration",
		DefaultAlgorithm:        entity.AlgorithmWeightedAverage,
		DefaultWindowHours:      24,
		TimeDecayFactor:         0.9,
		TrendWeight:             0.2,
		MinReportsForConfidence: 5,
		IsActive:                true,
		IsDefault:               true,
	}
	if err := s.sentimentConfigRepo.Create(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to create default sentiment config: %w", err)
	}
	return cfg, nil
}

func (s *sentimentService) scoreJob(ctx context.Context, job *entity.SyncJob, cfg *entity.SentimentConfig, algorithm Algorithm) (*entity.SentimentScore, error) {
	total := job.TotalReports()

	var value, confidence float64
	if total == 0 {
		value = 0.5 // neutral when no reports
		confidence = 0.0
	} else {
		switch algorithm {
		case AlgorithmWeightedAverage:
			var err error
			value, err = s.weightedAverage(ctx, job, cfg)
			if err != nil {
				return nil, err
			}
		default:
			value = float64(job.FPCount) / float64(total)
		}
		confidence = math.Min(float64(total)/float64(cfg.MinReportsForConfidence), 1.0)
	}

	trend, err := s.customerTrend(ctx, job.CustomerID)
	if err != nil {
		return nil, err
	}

	return &entity.SentimentScore{
		JobID:                  job.JobID,
		CustomerID:             job.CustomerID,
		SentimentScore:         value,
		AlgorithmUsed:          cfg.DefaultAlgorithm,
		CalculationWindowHours: cfg.DefaultWindowHours,
		FNCountUsed:            job.FNCount,
		FPCountUsed:            job.FPCount,
		ConfidenceScore:        confidence,
		TrendDirection:         trend,
	}, nil
}

// weightedAverage applies an exponential decay over the customer's own
// completed jobs inside the configured window, newest window first. The
// decay exponent is the iteration index, not the elapsed time between
// windows: two jobs one hour apart and two jobs one day apart decay
// identically.
func (s *sentimentService) weightedAverage(ctx context.Context, job *entity.SyncJob, cfg *entity.SentimentConfig) (float64, error) {
	since := job.WindowStart.Add(-time.Duration(cfg.DefaultWindowHours) * time.Hour)
	recent, err := s.syncJobRepo.FindRecentByCustomer(ctx, job.CustomerID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to load recent jobs: %w", err)
	}
	if len(recent) == 0 {
		return 0.5, nil
	}

	var weightedSum, weightSum float64
	for i := range recent {
		total := recent[i].TotalReports()
		if total == 0 {
			continue
		}
		ratio := float64(recent[i].FPCount) / float64(total)
		weight := math.Pow(cfg.TimeDecayFactor, float64(i))
		weightedSum += ratio * weight
		weightSum += weight
	}
	if weightSum == 0 {
		return 0.5, nil
	}
	return weightedSum / weightSum, nil
}

// customerTrend compares the customer's newest stored score against the
// second newest with a 5% threshold. Fewer than two prior scores reads
// as stable.
func (s *sentimentService) customerTrend(ctx context.Context, customerID uint) (string, error) {
	recent, err := s.scoreRepo.FindRecentByCustomer(ctx, customerID, 3)
	if err != nil {
		return "", fmt.Errorf("failed to load recent scores: %w", err)
	}
	if len(recent) < 2 {
		return entity.TrendStable, nil
	}
	return compareTrend(recent[0].SentimentScore, recent[1].SentimentScore, 0.05), nil
}

// compareTrend labels current against previous using a relative
// threshold (0.05 for customer and segment trends, 0.03 for overall).
func compareTrend(current, previous, threshold float64) string {
	switch {
	case current > previous*(1+threshold):
		return entity.TrendImproving
	case current < previous*(1-threshold):
		return entity.TrendDeclining
	default:
		return entity.TrendStable
	}
}
