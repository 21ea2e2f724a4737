package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/dto"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/pkg/common"
	"sentiment-pipeline/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// SchedulerService owns the recurring execution of the four pipeline
// stages. It is an explicit handle constructed by the process entry
// point; there is no package-level scheduler state.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	Status() *dto.SchedulerStatus
	RunJobNow(jobID string) bool
	RunAllOnce(ctx context.Context)
}

// NewSchedulerService creates a scheduler. redisClient may be nil to
// disable stage event publishing.
func NewSchedulerService(
	jobConfigRepo repository.JobConfigRepository,
	historyRepo repository.StageRunHistoryRepository,
	syncSvc SyncService,
	sentimentSvc SentimentService,
	segmentSvc SegmentService,
	overallSvc OverallService,
	redisClient *goredis.Client,
	streamMaxLen int64,
	appLogger *logger.Logger,
) SchedulerService {
	return &schedulerService{
		jobConfigRepo: jobConfigRepo,
		historyRepo:   historyRepo,
		syncSvc:       syncSvc,
		sentimentSvc:  sentimentSvc,
		segmentSvc:    segmentSvc,
		overallSvc:    overallSvc,
		redisClient:   redisClient,
		streamMaxLen:  streamMaxLen,
		logger:        appLogger,
	}
}

type scheduledJob struct {
	id      string
	name    string
	trigger string
	entryID cron.EntryID
}

type schedulerService struct {
	jobConfigRepo repository.JobConfigRepository
	historyRepo   repository.StageRunHistoryRepository
	syncSvc       SyncService
	sentimentSvc  SentimentService
	segmentSvc    SegmentService
	overallSvc    OverallService
	redisClient   *goredis.Client
	streamMaxLen  int64
	logger        *logger.Logger

	mu      sync.Mutex
	running bool
	cron    *cron.Cron
	jobs    []scheduledJob
}

// firstDelaySchedule fires once at a fixed start time, then settles into
// a constant interval. The configured stage delay therefore offsets only
// the first run after scheduler start; every later cycle runs on the
// shared sync cadence. Changing this to a true pipeline barrier is a
// product decision, not a bug fix.
type firstDelaySchedule struct {
	first    time.Time
	interval cron.ConstantDelaySchedule
}

func (s firstDelaySchedule) Next(t time.Time) time.Time {
	if t.Before(s.first) {
		return s.first
	}
	return s.interval.Next(t)
}

// Start loads the job timing configuration and registers the four stage
// jobs. With no active configuration the scheduler starts empty and
// schedules nothing.
func (s *schedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Warn("Scheduler is already running")
		return nil
	}

	cfg, err := s.jobConfigRepo.FindActiveConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load job configuration: %w", err)
	}

	cronLogger := newCronLogger(s.logger)
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger),
		cron.Recover(cronLogger),
	))
	s.jobs = nil

	if cfg == nil {
		s.logger.Warn("No active job configuration found, scheduler will run no jobs")
	} else {
		interval := time.Duration(cfg.SyncIntervalMinutes) * time.Minute
		s.register(common.JobIDSync, "Data Synchronization Job", common.StageSync,
			interval, 0, s.syncSvc.RunSync)
		s.register(common.JobIDSentiment, "Sentiment Calculation Job", common.StageSentiment,
			interval, time.Duration(cfg.SentimentDelayMinutes)*time.Minute, s.sentimentSvc.RunSentiment)
		s.register(common.JobIDSegment, "Segment Analysis Job", common.StageSegment,
			interval, time.Duration(cfg.SegmentDelayMinutes)*time.Minute, s.segmentSvc.RunSegments)
		s.register(common.JobIDOverall, "Overall Sentiment Job", common.StageOverall,
			interval, time.Duration(cfg.OverallDelayMinutes)*time.Minute, s.overallSvc.RunOverall)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Scheduler started", logger.Field("jobs", len(s.jobs)))
	return nil
}

func (s *schedulerService) register(id, name, stage string, interval, delay time.Duration, run func(context.Context) error) {
	schedule := firstDelaySchedule{
		first:    time.Now().Add(delay),
		interval: cron.ConstantDelaySchedule{Delay: interval},
	}
	entryID := s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.runStage(context.Background(), stage, run)
	}))

	trigger := fmt.Sprintf("interval[%s]", interval)
	if delay > 0 {
		trigger = fmt.Sprintf("interval[%s], first run delayed %s", interval, delay)
	}
	s.jobs = append(s.jobs, scheduledJob{id: id, name: name, trigger: trigger, entryID: entryID})

	s.logger.Info("Scheduled job",
		logger.Field("job_id", id),
		logger.Field("interval", interval.String()),
		logger.Field("initial_delay", delay.String()))
}

// runStage executes one stage body, recording a history row and
// publishing lifecycle events around it.
func (s *schedulerService) runStage(ctx context.Context, stage string, run func(context.Context) error) {
	started := time.Now().UTC()
	history := &entity.StageRunHistory{
		Stage:     stage,
		Status:    entity.RunStatusRunning,
		StartedAt: started,
	}
	if err := s.historyRepo.Create(ctx, history); err != nil {
		s.logger.Error("Failed to create stage run history", logger.ErrorField(err), logger.Field("stage", stage))
	}
	s.publishEvent(ctx, stage, entity.RunStatusRunning, history.ID)

	err := run(ctx)

	history.CompletedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	if err != nil {
		history.Status = entity.RunStatusFailed
		history.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		s.logger.Error("Stage run failed", logger.ErrorField(err), logger.Field("stage", stage))
	} else {
		history.Status = entity.RunStatusCompleted
	}
	if details, dErr := json.Marshal(map[string]interface{}{
		"duration_ms": time.Since(started).Milliseconds(),
	}); dErr == nil {
		history.Details = details
	}
	if history.ID != 0 {
		if uErr := s.historyRepo.Update(ctx, history); uErr != nil {
			s.logger.Error("Failed to update stage run history", logger.ErrorField(uErr), logger.Field("stage", stage))
		}
	}
	s.publishEvent(ctx, stage, history.Status, history.ID)
}

// publishEvent emits a stage lifecycle event onto a capped redis stream.
func (s *schedulerService) publishEvent(ctx context.Context, stage, status string, historyID uint) {
	if s.redisClient == nil {
		return
	}
	err := s.redisClient.XAdd(ctx, &goredis.XAddArgs{
		Stream: common.RedisStreamStageEvents,
		MaxLen: s.streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"stage":      stage,
			"status":     status,
			"history_id": historyID,
			"at":         time.Now().UTC().Format(time.RFC3339),
		},
	}).Err()
	if err != nil {
		s.logger.Error("Failed to publish stage event", logger.ErrorField(err), logger.Field("stage", stage))
	}
}

// Stop shuts the scheduler down without waiting for in-flight jobs.
func (s *schedulerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Warn("Scheduler is not running")
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info("Scheduler stopped")
}

// Status reports running/stopped plus each job's next run time.
func (s *schedulerService) Status() *dto.SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return &dto.SchedulerStatus{Status: "stopped", Jobs: []dto.JobStatus{}}
	}

	jobs := make([]dto.JobStatus, 0, len(s.jobs))
	for _, job := range s.jobs {
		entry := s.cron.Entry(job.entryID)
		var next *time.Time
		if !entry.Next.IsZero() {
			t := entry.Next
			next = &t
		}
		jobs = append(jobs, dto.JobStatus{
			ID:          job.id,
			Name:        job.name,
			NextRunTime: next,
			Trigger:     job.trigger,
		})
	}
	return &dto.SchedulerStatus{Status: "running", Jobs: jobs}
}

// RunJobNow triggers one job immediately. The skip-if-still-running
// chain still applies, so a manual trigger never overlaps a scheduled
// run of the same job.
func (s *schedulerService) RunJobNow(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Warn("Cannot trigger job, scheduler is not running", logger.Field("job_id", jobID))
		return false
	}
	for _, job := range s.jobs {
		if job.id == jobID {
			entry := s.cron.Entry(job.entryID)
			go entry.WrappedJob.Run()
			s.logger.Info("Manually triggered job", logger.Field("job_id", jobID))
			return true
		}
	}
	s.logger.Warn("Job not found", logger.Field("job_id", jobID))
	return false
}

// RunAllOnce runs the four stages sequentially, for diagnostics.
func (s *schedulerService) RunAllOnce(ctx context.Context) {
	s.runStage(ctx, common.StageSync, s.syncSvc.RunSync)
	s.runStage(ctx, common.StageSentiment, s.sentimentSvc.RunSentiment)
	s.runStage(ctx, common.StageSegment, s.segmentSvc.RunSegments)
	s.runStage(ctx, common.StageOverall, s.overallSvc.RunOverall)
}

// cronLogger adapts the zap logger to the cron.Logger interface.
type cronLogger struct {
	logger *logger.Logger
}

func newCronLogger(l *logger.Logger) cron.Logger {
	return &cronLogger{logger: l}
}

func (c *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logger.Info(msg, logger.Field("details", keysAndValues))
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.logger.Error(msg, logger.ErrorField(err), logger.Field("details", keysAndValues))
}
