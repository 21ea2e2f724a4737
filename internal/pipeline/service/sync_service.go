package service

import (
	"context"
	"fmt"
	"time"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/internal/pipeline/source"
	"sentiment-pipeline/pkg/logger"
	"sentiment-pipeline/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConnectorFactory builds a source connector from the resolved database
// configuration. Injected so tests can supply a fake source.
type ConnectorFactory func(cfg *entity.DatabaseConfig) source.Connector

// SyncService pulls FN/FP counts from the source system into immutable
// per-(customer, hour-window) sync job rows.
type SyncService interface {
	RunSync(ctx context.Context) error
}

// NewSyncService creates a new sync stage service.
func NewSyncService(
	customerRepo repository.CustomerRepository,
	syncJobRepo repository.SyncJobRepository,
	dbConfigRepo repository.DatabaseConfigRepository,
	connectorFactory ConnectorFactory,
	logger *logger.Logger,
) SyncService {
	return &syncService{
		customerRepo:     customerRepo,
		syncJobRepo:      syncJobRepo,
		dbConfigRepo:     dbConfigRepo,
		connectorFactory: connectorFactory,
		logger:           logger,
	}
}

type syncService struct {
	customerRepo     repository.CustomerRepository
	syncJobRepo      repository.SyncJobRepository
	dbConfigRepo     repository.DatabaseConfigRepository
	connectorFactory ConnectorFactory
	logger           *logger.Logger
}

// RunSync executes one sync pass. Idempotent per hourly window: a window
// that already has completed jobs is left untouched. A source failure
// aborts the run before any write.
func (s *syncService) RunSync(ctx context.Context) error {
	s.logger.Info("Starting data sync")

	cfg, err := s.dbConfigRepo.FindActiveDefault(ctx)
	if err != nil {
		return fmt.Errorf("failed to load source database config: %w", err)
	}
	if cfg == nil {
		s.logger.Warn("No active source database configuration, nothing to sync")
		return nil
	}

	conn := s.connectorFactory(cfg)
	if err := conn.TestConnection(ctx); err != nil {
		if mErr := s.dbConfigRepo.MarkTested(ctx, cfg.ID, entity.TestStatusFailed, err.Error()); mErr != nil {
			s.logger.Error("Failed to record connection test result", logger.ErrorField(mErr))
		}
		s.logger.Error("Cannot connect to source database, aborting sync", logger.ErrorField(err))
		return err
	}
	if err := s.dbConfigRepo.MarkTested(ctx, cfg.ID, entity.TestStatusSuccess, ""); err != nil {
		s.logger.Error("Failed to record connection test result", logger.ErrorField(err))
	}

	if err := s.syncCustomers(ctx, conn); err != nil {
		return err
	}

	windowStart, windowEnd := utils.HourWindow(time.Now())

	total, err := s.syncJobRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count sync jobs: %w", err)
	}
	if total == 0 {
		s.logger.Info("First run detected, starting historical backfill")
		return s.backfillHistoricalData(ctx, conn)
	}

	exists, err := s.syncJobRepo.ExistsCompletedForWindow(ctx, windowStart)
	if err != nil {
		return fmt.Errorf("failed to check window: %w", err)
	}
	if exists {
		s.logger.Info("Data already synced for window", logger.Field("window_start", windowStart))
		return nil
	}

	counts, err := conn.FetchCounts(ctx, windowStart, windowEnd, nil)
	if err != nil {
		s.logger.Error("Failed to fetch counts, aborting sync", logger.ErrorField(err))
		return err
	}

	if len(counts) == 0 {
		// A confirmed-quiet window still gets one zero-count row per
		// customer so downstream windows stay dense.
		s.logger.Info("No data found for window", logger.Field("window_start", windowStart))
		return s.writeEmptyWindow(ctx, windowStart, windowEnd)
	}

	created := 0
	now := time.Now().UTC()
	for _, row := range counts {
		customer, err := s.customerRepo.FindByExternalID(ctx, row.CustomerID)
		if err == gorm.ErrRecordNotFound {
			s.logger.Warn("Customer not found in local cache, skipping",
				logger.Field("customer_id", row.CustomerID))
			continue
		}
		if err != nil {
			s.logger.Error("Customer lookup failed, skipping row",
				logger.ErrorField(err), logger.Field("customer_id", row.CustomerID))
			continue
		}

		job := newCompletedSyncJob(customer.ID, windowStart, windowEnd, row.FNCount, row.FPCount, now, time.Now().UTC())
		if err := s.syncJobRepo.Create(ctx, job); err != nil {
			s.logger.Error("Failed to create sync job",
				logger.ErrorField(err), logger.Field("customer_id", row.CustomerID))
			continue
		}
		created++
	}

	s.logger.Info("Data sync completed",
		logger.Field("window_start", windowStart),
		logger.Field("jobs_created", created))
	return nil
}

// syncCustomers refreshes the local customer cache from the source,
// fully overwriting cached fields on match.
func (s *syncService) syncCustomers(ctx context.Context, conn source.Connector) error {
	records, err := conn.FetchCustomers(ctx)
	if err != nil {
		return fmt.Errorf("customer sync failed: %w", err)
	}

	synced := 0
	for _, rec := range records {
		customer := &entity.Customer{
			CustomerID:    rec.CustomerID,
			CompanyName:   rec.CompanyName,
			Industry:      rec.Industry,
			ContactPerson: rec.ContactPerson,
			Phone:         rec.Phone,
			Address:       rec.Address,
			City:          rec.City,
			State:         rec.State,
			Country:       rec.Country,
			PostalCode:    rec.PostalCode,
			IsActive:      true,
			CreatedAt:     rec.CreatedAt,
			UpdatedAt:     rec.UpdatedAt,
		}
		if err := s.customerRepo.Upsert(ctx, customer); err != nil {
			s.logger.Error("Failed to upsert customer",
				logger.ErrorField(err), logger.Field("customer_id", rec.CustomerID))
			continue
		}
		synced++
	}

	s.logger.Info("Customer sync completed", logger.Field("customers_synced", synced))
	return nil
}

// writeEmptyWindow creates one zero-count completed job per known
// customer for the given window.
func (s *syncService) writeEmptyWindow(ctx context.Context, windowStart, windowEnd time.Time) error {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list customers: %w", err)
	}
	now := time.Now().UTC()
	for _, customer := range customers {
		job := newCompletedSyncJob(customer.ID, windowStart, windowEnd, 0, 0, now, time.Now().UTC())
		if err := s.syncJobRepo.Create(ctx, job); err != nil {
			s.logger.Error("Failed to create zero-count sync job",
				logger.ErrorField(err), logger.Field("customer_id", customer.CustomerID))
		}
	}
	return nil
}

// backfillHistoricalData walks forward one hour at a time from the
// earliest report to the current hour (exclusive). Unlike the live path
// it does not synthesize zero-count rows, and it is not checkpointed: a
// crash mid-pass leaves a gap the next run will not repair once any row
// exists.
func (s *syncService) backfillHistoricalData(ctx context.Context, conn source.Connector) error {
	earliest, err := conn.FetchEarliestReportTime(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch earliest report time", logger.ErrorField(err))
		return err
	}
	if earliest == nil {
		s.logger.Warn("No historical data found in source database")
		return nil
	}

	currentWindow := utils.TruncateToHour(*earliest)
	nowHour := utils.TruncateToHour(time.Now())

	jobsCreated := 0
	windowsProcessed := 0

	for currentWindow.Before(nowHour) {
		windowEnd := currentWindow.Add(time.Hour)

		counts, err := conn.FetchCounts(ctx, currentWindow, windowEnd, nil)
		if err != nil {
			s.logger.Error("Backfill fetch failed, aborting pass",
				logger.ErrorField(err), logger.Field("window_start", currentWindow))
			return err
		}

		for _, row := range counts {
			customer, err := s.customerRepo.FindByExternalID(ctx, row.CustomerID)
			if err == gorm.ErrRecordNotFound {
				s.logger.Warn("Customer not found during backfill, skipping",
					logger.Field("customer_id", row.CustomerID))
				continue
			}
			if err != nil {
				s.logger.Error("Customer lookup failed during backfill, skipping row",
					logger.ErrorField(err), logger.Field("customer_id", row.CustomerID))
				continue
			}

			job := newCompletedSyncJob(customer.ID, currentWindow, windowEnd,
				row.FNCount, row.FPCount, currentWindow, currentWindow.Add(time.Minute))
			if err := s.syncJobRepo.Create(ctx, job); err != nil {
				s.logger.Error("Failed to create backfill sync job",
					logger.ErrorField(err), logger.Field("customer_id", row.CustomerID))
				continue
			}
			jobsCreated++
		}

		windowsProcessed++
		currentWindow = windowEnd

		if windowsProcessed%24 == 0 {
			s.logger.Info("Backfill progress",
				logger.Field("windows_processed", windowsProcessed),
				logger.Field("jobs_created", jobsCreated))
		}
	}

	s.logger.Info("Historical backfill completed",
		logger.Field("windows_processed", windowsProcessed),
		logger.Field("jobs_created", jobsCreated))
	return nil
}

func newCompletedSyncJob(customerID uint, windowStart, windowEnd time.Time, fnCount, fpCount int, startedAt, completedAt time.Time) *entity.SyncJob {
	return &entity.SyncJob{
		JobID:       uuid.New(),
		CustomerID:  customerID,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		FNCount:     fnCount,
		FPCount:     fpCount,
		Status:      entity.StatusCompleted,
		StartedAt:   &startedAt,
		CompletedAt: &completedAt,
	}
}
