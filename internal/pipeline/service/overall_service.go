package service

import (
	"context"
	"fmt"
	"time"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/pkg/logger"
	"sentiment-pipeline/pkg/telegram"

	"github.com/google/uuid"
)

const (
	overallWindowHours = 24
	// Top/bottom segments come from the much shorter trailing hour, so
	// they can diverge from the 24h aggregation window above.
	segmentPerformanceWindow = time.Hour
)

// OverallService aggregates all recent per-customer sentiment into a
// single product-wide snapshot.
type OverallService interface {
	RunOverall(ctx context.Context) error
}

// NewOverallService creates a new overall stage service. notifier may be
// nil, in which case declining-trend alerts are skipped.
func NewOverallService(
	scoreRepo repository.SentimentScoreRepository,
	segmentRepo repository.SegmentSentimentRepository,
	overallRepo repository.OverallSentimentRepository,
	notifier telegram.Notifier,
	logger *logger.Logger,
) OverallService {
	return &overallService{
		scoreRepo:   scoreRepo,
		segmentRepo: segmentRepo,
		overallRepo: overallRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

type overallService struct {
	scoreRepo   repository.SentimentScoreRepository
	segmentRepo repository.SegmentSentimentRepository
	overallRepo repository.OverallSentimentRepository
	notifier    telegram.Notifier
	logger      *logger.Logger
}

// RunOverall computes one product-wide snapshot. With no scores in the
// trailing window the run is a no-op, not an error.
func (s *overallService) RunOverall(ctx context.Context) error {
	s.logger.Info("Starting overall sentiment calculation")

	now := time.Now().UTC()
	scores, err := s.scoreRepo.FindSince(ctx, now.Add(-overallWindowHours*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to load recent scores: %w", err)
	}
	if len(scores) == 0 {
		s.logger.Warn("No recent sentiment scores found")
		return nil
	}

	values := make([]float64, 0, len(scores))
	customers := make(map[uint]struct{}, len(scores))
	totalFN, totalFP := 0, 0
	var weightedSum float64
	var totalReports int
	for i := range scores {
		values = append(values, scores[i].SentimentScore)
		customers[scores[i].CustomerID] = struct{}{}
		totalFN += scores[i].FNCountUsed
		totalFP += scores[i].FPCountUsed

		reports := scores[i].TotalReportsUsed()
		weightedSum += scores[i].SentimentScore * float64(reports)
		totalReports += reports
	}

	overall := mean(values)
	weighted := overall
	if totalReports > 0 {
		weighted = weightedSum / float64(totalReports)
	}

	top, bottom, err := s.segmentPerformance(ctx, now)
	if err != nil {
		return err
	}

	trend := entity.TrendStable
	previous, err := s.overallRepo.FindLatest(ctx)
	if err != nil {
		return err
	}
	if previous != nil {
		trend = compareTrend(overall, previous.OverallSentiment, 0.03)
	}

	snapshot := &entity.OverallSentiment{
		JobID:                   uuid.New(),
		TotalCustomers:          len(customers),
		TotalFNCount:            totalFN,
		TotalFPCount:            totalFP,
		OverallSentiment:        overall,
		WeightedSentiment:       weighted,
		SentimentVariance:       populationVariance(values),
		TrendDirection:          trend,
		TopPerformingSegment:    top,
		LowestPerformingSegment: bottom,
		CalculationWindowHours:  overallWindowHours,
	}
	if err := s.overallRepo.Create(ctx, snapshot); err != nil {
		return err
	}

	s.logger.Info("Overall sentiment calculation completed",
		logger.Field("overall_sentiment", overall),
		logger.Field("trend", trend))

	if trend == entity.TrendDeclining && s.notifier != nil {
		msg := telegram.FormatOverallSentimentAlert(overall, weighted, len(customers), now)
		if err := s.notifier.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send declining sentiment alert", logger.ErrorField(err))
		}
	}
	return nil
}

// segmentPerformance reads top and bottom performing segments from the
// snapshots created within the trailing hour.
func (s *overallService) segmentPerformance(ctx context.Context, now time.Time) (string, string, error) {
	segments, err := s.segmentRepo.FindSinceOrdered(ctx, now.Add(-segmentPerformanceWindow))
	if err != nil {
		return "", "", fmt.Errorf("failed to load recent segments: %w", err)
	}
	if len(segments) == 0 {
		return "Unknown", "Unknown", nil
	}
	return segments[0].Segment, segments[len(segments)-1].Segment, nil
}
