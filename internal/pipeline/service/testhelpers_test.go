package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/source"
	"sentiment-pipeline/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

func newTestLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func createTestCustomer(t *testing.T, db *gorm.DB, externalID int64, industry string) *entity.Customer {
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

func createCompletedJob(t *testing.T, db *gorm.DB, customerID uint, windowStart time.Time, fnCount, fpCount int) *entity.SyncJob {
	t.Helper()
	started := windowStart
	completed := windowStart.Add(time.Minute)
	job := &entity.SyncJob{
		JobID:       uuid.New(),
		CustomerID:  customerID,
		WindowStart: windowStart,
		WindowEnd:   windowStart.Add(time.Hour),
		FNCount:     fnCount,
		FPCount:     fpCount,
		Status:      entity.StatusCompleted,
		StartedAt:   &started,
		CompletedAt: &completed,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

func createDefaultDatabaseConfig(t *testing.T, db *gorm.DB) *entity.DatabaseConfig {
	t.Helper()
	cfg := &entity.DatabaseConfig{
		Name:              "default",
		Host:              "localhost",
		Port:              9876,
		DatabaseName:      "email_security",
		Username:          "admin",
		Password:          "secret",
		ConnectionTimeout: 30,
		MaxConnections:    10,
		IsActive:          true,
		IsDefault:         true,
		TestStatus:        entity.TestStatusNotTested,
	}
	require.NoError(t, db.Create(cfg).Error)
	return cfg
}

// fakeConnector is an in-memory source.Connector for stage tests.
type fakeConnector struct {
	customers    []source.CustomerRecord
	counts       []source.CountRow
	countsFn     func(windowStart, windowEnd time.Time) []source.CountRow
	earliest     *time.Time
	latest       *time.Time
	connectErr   error
	fetchErr     error
	fetchWindows []time.Time
}

func (f *fakeConnector) TestConnection(ctx context.Context) error {
	return f.connectErr
}

func (f *fakeConnector) FetchCustomers(ctx context.Context) ([]source.CustomerRecord, error) {
	return f.customers, nil
}

func (f *fakeConnector) FetchCounts(ctx context.Context, windowStart, windowEnd time.Time, customerID *int64) ([]source.CountRow, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	f.fetchWindows = append(f.fetchWindows, windowStart)
	if f.countsFn != nil {
		return f.countsFn(windowStart, windowEnd), nil
	}
	return f.counts, nil
}

func (f *fakeConnector) FetchEarliestReportTime(ctx context.Context) (*time.Time, error) {
	return f.earliest, nil
}

func (f *fakeConnector) FetchLatestReportTime(ctx context.Context) (*time.Time, error) {
	return f.latest, nil
}

func fixedFactory(conn source.Connector) ConnectorFactory {
	return func(cfg *entity.DatabaseConfig) source.Connector {
		return conn
	}
}
