package service

import (
	"context"
	"fmt"
	"time"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/pkg/logger"

	"github.com/google/uuid"
)

const segmentWindowHours = 24

// SegmentService aggregates recent per-customer sentiment into
// per-industry snapshots.
type SegmentService interface {
	RunSegments(ctx context.Context) error
}

// NewSegmentService creates a new segment stage service.
func NewSegmentService(
	customerRepo repository.CustomerRepository,
	scoreRepo repository.SentimentScoreRepository,
	segmentRepo repository.SegmentSentimentRepository,
	logger *logger.Logger,
) SegmentService {
	return &segmentService{
		customerRepo: customerRepo,
		scoreRepo:    scoreRepo,
		segmentRepo:  segmentRepo,
		logger:       logger,
	}
}

type segmentService struct {
	customerRepo repository.CustomerRepository
	scoreRepo    repository.SentimentScoreRepository
	segmentRepo  repository.SegmentSentimentRepository
	logger       *logger.Logger
}

// RunSegments aggregates each industry independently; one industry's
// failure never aborts the others.
func (s *segmentService) RunSegments(ctx context.Context) error {
	s.logger.Info("Starting segment sentiment calculation")

	industries, err := s.customerRepo.DistinctIndustries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list industries: %w", err)
	}

	now := time.Now().UTC()
	processed := 0
	for _, industry := range industries {
		if err := s.aggregateSegment(ctx, industry, now); err != nil {
			s.logger.Error("Failed to calculate segment sentiment",
				logger.ErrorField(err), logger.Field("segment", industry))
			continue
		}
		processed++
	}

	s.logger.Info("Segment sentiment calculation completed",
		logger.Field("segments_processed", processed))
	return nil
}

func (s *segmentService) aggregateSegment(ctx context.Context, industry string, now time.Time) error {
	since := now.Add(-segmentWindowHours * time.Hour)
	scores, err := s.scoreRepo.FindByIndustrySince(ctx, industry, since)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		return nil
	}

	values := make([]float64, 0, len(scores))
	customers := make(map[uint]struct{}, len(scores))
	totalFN, totalFP := 0, 0
	for i := range scores {
		values = append(values, scores[i].SentimentScore)
		customers[scores[i].CustomerID] = struct{}{}
		totalFN += scores[i].FNCountUsed
		totalFP += scores[i].FPCountUsed
	}

	average := mean(values)

	trend := entity.TrendStable
	previous, err := s.segmentRepo.FindLatestBySegment(ctx, industry)
	if err != nil {
		return err
	}
	if previous != nil {
		trend = compareTrend(average, previous.AverageSentiment, 0.05)
	}

	snapshot := &entity.SegmentSentiment{
		JobID:                  uuid.New(),
		Segment:                industry,
		TotalCustomers:         len(customers),
		TotalFNCount:           totalFN,
		TotalFPCount:           totalFP,
		AverageSentiment:       average,
		MedianSentiment:        upperMedian(values),
		SentimentStdDev:        populationStdDev(values),
		TrendDirection:         trend,
		CalculationWindowHours: segmentWindowHours,
	}
	return s.segmentRepo.Create(ctx, snapshot)
}
