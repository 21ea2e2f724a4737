package service

import (
	"context"
	"time"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/dto"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/pkg/logger"
	"sentiment-pipeline/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = 30 * time.Second
)

// DashboardService assembles the aggregate view served to dashboards.
// Results are cached briefly since the underlying snapshots only change
// once per pipeline cycle.
type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, error)
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(
	syncJobRepo repository.SyncJobRepository,
	segmentRepo repository.SegmentSentimentRepository,
	overallRepo repository.OverallSentimentRepository,
	logger *logger.Logger,
) DashboardService {
	return &dashboardService{
		syncJobRepo: syncJobRepo,
		segmentRepo: segmentRepo,
		overallRepo: overallRepo,
		cache:       gocache.New(dashboardCacheTTL, time.Minute),
		logger:      logger,
	}
}

type dashboardService struct {
	syncJobRepo repository.SyncJobRepository
	segmentRepo repository.SegmentSentimentRepository
	overallRepo repository.OverallSentimentRepository
	cache       *gocache.Cache
	logger      *logger.Logger
}

func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	if cached, found := s.cache.Get(dashboardCacheKey); found {
		return cached.(*dto.DashboardSummary), nil
	}

	now := time.Now().UTC()
	summary := &dto.DashboardSummary{
		SentimentLabel: "No Data",
		TrendDirection: entity.TrendStable,
		Segments:       []dto.SegmentSummary{},
		GeneratedAt:    now,
	}

	overall, err := s.overallRepo.FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	if overall != nil {
		o, w := overall.OverallSentiment, overall.WeightedSentiment
		summary.OverallSentiment = &o
		summary.WeightedSentiment = &w
		summary.SentimentLabel = entity.SentimentLabel(o)
		summary.TrendDirection = overall.TrendDirection
		summary.TotalCustomers = overall.TotalCustomers
	}

	fnToday, fpToday, err := s.syncJobRepo.SumCountsSince(ctx, utils.StartOfDay(now))
	if err != nil {
		return nil, err
	}
	summary.FNReportsToday = fnToday
	summary.FPReportsToday = fpToday
	summary.ReportsToday = fnToday + fpToday

	segments, err := s.segmentRepo.FindLatestPerSegment(ctx)
	if err != nil {
		return nil, err
	}
	for i := range segments {
		summary.Segments = append(summary.Segments, dto.SegmentSummary{
			Segment:          segments[i].Segment,
			AverageSentiment: segments[i].AverageSentiment,
			SentimentLabel:   entity.SentimentLabel(segments[i].AverageSentiment),
			TotalCustomers:   segments[i].TotalCustomers,
			TrendDirection:   segments[i].TrendDirection,
			CalculatedAt:     segments[i].CreatedAt,
		})
	}

	s.cache.Set(dashboardCacheKey, summary, gocache.DefaultExpiration)
	return summary, nil
}
