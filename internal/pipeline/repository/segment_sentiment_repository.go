package repository

import (
	"context"
	"time"

	"sentiment-pipeline/internal/entity"

	"gorm.io/gorm"
)

// SegmentSentimentRepository defines the interface for segment snapshot
// data operations.
type SegmentSentimentRepository interface {
	Create(ctx context.Context, segment *entity.SegmentSentiment) error
	FindLatestBySegment(ctx context.Context, segment string) (*entity.SegmentSentiment, error)
	FindSinceOrdered(ctx context.Context, since time.Time) ([]entity.SegmentSentiment, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]entity.SegmentSentiment, error)
	FindLatestPerSegment(ctx context.Context) ([]entity.SegmentSentiment, error)
}

// NewSegmentSentimentRepository creates a new GORM-based segment snapshot
// repository.
func NewSegmentSentimentRepository(db *gorm.DB) SegmentSentimentRepository {
	return &segmentSentimentRepository{db: db}
}

type segmentSentimentRepository struct {
	db *gorm.DB
}

// Create persists a new segment snapshot inside its own transaction.
func (r *segmentSentimentRepository) Create(ctx context.Context, segment *entity.SegmentSentiment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(segment).Error
	})
}

// FindLatestBySegment retrieves the most recent snapshot for one industry,
// or nil when the industry has never been aggregated.
func (r *segmentSentimentRepository) FindLatestBySegment(ctx context.Context, segment string) (*entity.SegmentSentiment, error) {
	var snapshot entity.SegmentSentiment
	err := r.db.WithContext(ctx).
		Where("segment = ?", segment).
		Order("created_at DESC").
		First(&snapshot).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FindSinceOrdered retrieves snapshots created at or after since, sorted
// by average sentiment descending. The overall stage reads top/bottom
// performers from this ordering.
func (r *segmentSentimentRepository) FindSinceOrdered(ctx context.Context, since time.Time) ([]entity.SegmentSentiment, error) {
	var snapshots []entity.SegmentSentiment
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("average_sentiment DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// FindInRange retrieves snapshots created inside [from, to], newest first.
func (r *segmentSentimentRepository) FindInRange(ctx context.Context, from, to time.Time) ([]entity.SegmentSentiment, error) {
	var snapshots []entity.SegmentSentiment
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at DESC, segment").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// FindLatestPerSegment retrieves the newest snapshot of every industry.
func (r *segmentSentimentRepository) FindLatestPerSegment(ctx context.Context) ([]entity.SegmentSentiment, error) {
	var segments []string
	err := r.db.WithContext(ctx).
		Model(&entity.SegmentSentiment{}).
		Distinct("segment").
		Order("segment").
		Pluck("segment", &segments).Error
	if err != nil {
		return nil, err
	}

	snapshots := make([]entity.SegmentSentiment, 0, len(segments))
	for _, segment := range segments {
		latest, err := r.FindLatestBySegment(ctx, segment)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			snapshots = append(snapshots, *latest)
		}
	}
	return snapshots, nil
}
