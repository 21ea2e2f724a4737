package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/config"
	delivery "sentiment-pipeline/internal/pipeline/delivery/http"
	_ "sentiment-pipeline/internal/pipeline/docs"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/internal/pipeline/service"
	"sentiment-pipeline/internal/pipeline/source"
	"sentiment-pipeline/pkg/logger"
	"sentiment-pipeline/pkg/postgres"
	"sentiment-pipeline/pkg/redis"
	"sentiment-pipeline/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var (
	configPath string
	testRun    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the sentiment pipeline service",
	Run:   runServe,
}

var runOnceCmd = &cobra.Command{
	Use:   "run-once",
	Short: "Runs the four pipeline stages once and exits",
	Run:   runOnce,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Creates the default configurations and industry baselines",
	Run:   runSeed,
}

// app bundles everything the commands share.
type app struct {
	cfg    *config.Config
	logger *logger.Logger
	db     *postgres.DB

	customerRepo        repository.CustomerRepository
	syncJobRepo         repository.SyncJobRepository
	scoreRepo           repository.SentimentScoreRepository
	segmentRepo         repository.SegmentSentimentRepository
	overallRepo         repository.OverallSentimentRepository
	baselineRepo        repository.IndustryBaselineRepository
	dbConfigRepo        repository.DatabaseConfigRepository
	sentimentConfigRepo repository.SentimentConfigRepository
	jobConfigRepo       repository.JobConfigRepository
	historyRepo         repository.StageRunHistoryRepository

	syncSvc      service.SyncService
	sentimentSvc service.SentimentService
	segmentSvc   service.SegmentService
	overallSvc   service.OverallService
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &app{cfg: cfg, logger: appLogger, db: db}

	a.customerRepo = repository.NewCustomerRepository(db.DB)
	a.syncJobRepo = repository.NewSyncJobRepository(db.DB)
	a.scoreRepo = repository.NewSentimentScoreRepository(db.DB)
	a.segmentRepo = repository.NewSegmentSentimentRepository(db.DB)
	a.overallRepo = repository.NewOverallSentimentRepository(db.DB)
	a.baselineRepo = repository.NewIndustryBaselineRepository(db.DB)
	a.dbConfigRepo = repository.NewDatabaseConfigRepository(db.DB)
	a.sentimentConfigRepo = repository.NewSentimentConfigRepository(db.DB)
	a.jobConfigRepo = repository.NewJobConfigRepository(db.DB)
	a.historyRepo = repository.NewStageRunHistoryRepository(db.DB)

	connectorFactory := func(dbCfg *entity.DatabaseConfig) source.Connector {
		return source.NewPostgresConnector(dbCfg.DSN())
	}

	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Warn("Failed to initialize Telegram notifier, alerts disabled", logger.ErrorField(err))
			notifier = nil
		}
	}

	a.syncSvc = service.NewSyncService(a.customerRepo, a.syncJobRepo, a.dbConfigRepo, connectorFactory, appLogger)
	a.sentimentSvc = service.NewSentimentService(a.syncJobRepo, a.scoreRepo, a.sentimentConfigRepo, appLogger)
	a.segmentSvc = service.NewSegmentService(a.customerRepo, a.scoreRepo, a.segmentRepo, appLogger)
	a.overallSvc = service.NewOverallService(a.scoreRepo, a.segmentRepo, a.overallRepo, notifier, appLogger)

	return a, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}
	defer a.close()

	a.logger.Info("Starting Sentiment Pipeline Service", logger.Field("name", a.cfg.App.Name))

	redisClient, err := redis.NewClient(redis.Config{
		Host:     a.cfg.Redis.Host,
		Port:     a.cfg.Redis.Port,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
		PoolSize: a.cfg.Redis.PoolSize,
	})
	if err != nil {
		a.logger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	schedulerSvc := service.NewSchedulerService(
		a.jobConfigRepo, a.historyRepo,
		a.syncSvc, a.sentimentSvc, a.segmentSvc, a.overallSvc,
		redisClient.Client, a.cfg.Redis.StreamMaxLen, a.logger,
	)

	if testRun {
		a.logger.Info("Test run requested, executing all stages once")
		schedulerSvc.RunAllOnce(ctx)
		return
	}

	if err := schedulerSvc.Start(ctx); err != nil {
		a.logger.Fatal("Failed to start scheduler", logger.ErrorField(err))
	}
	defer schedulerSvc.Stop()

	dashboardSvc := service.NewDashboardService(a.syncJobRepo, a.segmentRepo, a.overallRepo, a.logger)

	e := echo.New()
	e.HideBanner = true

	apiV1 := e.Group("/api/v1")

	customerHandler := delivery.NewCustomerHandler(a.customerRepo, a.scoreRepo, a.logger)
	customerHandler.RegisterRoutes(apiV1.Group("/customers"))

	sentimentHandler := delivery.NewSentimentHandler(a.scoreRepo, a.segmentRepo, a.overallRepo, a.logger)
	sentimentHandler.RegisterRoutes(apiV1)

	syncJobHandler := delivery.NewSyncJobHandler(a.syncJobRepo, a.logger)
	syncJobHandler.RegisterRoutes(apiV1.Group("/sync-jobs"))

	baselineHandler := delivery.NewBaselineHandler(a.baselineRepo, a.logger)
	baselineHandler.RegisterRoutes(apiV1.Group("/baselines"))

	dashboardHandler := delivery.NewDashboardHandler(dashboardSvc, a.logger)
	dashboardHandler.RegisterRoutes(apiV1.Group("/dashboard"))

	schedulerHandler := delivery.NewSchedulerHandler(schedulerSvc, a.historyRepo, a.logger)
	schedulerHandler.RegisterRoutes(apiV1)

	configHandler := delivery.NewConfigHandler(a.dbConfigRepo, a.sentimentConfigRepo, a.jobConfigRepo, a.logger)
	configHandler.RegisterRoutes(apiV1.Group("/configs"))

	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf(":%d", a.cfg.API.Port)
		a.logger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	a.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		a.logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	a.logger.Info("Server exiting")
}

func runOnce(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}
	defer a.close()

	a.logger.Info("Running all pipeline stages once")

	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{"sync", a.syncSvc.RunSync},
		{"sentiment", a.sentimentSvc.RunSentiment},
		{"segment", a.segmentSvc.RunSegments},
		{"overall", a.overallSvc.RunOverall},
	}
	for _, stage := range stages {
		if err := stage.run(ctx); err != nil {
			a.logger.Error("Stage failed", logger.ErrorField(err), logger.Field("stage", stage.name))
			os.Exit(1)
		}
	}

	a.logger.Info("All pipeline stages completed")
}

func runSeed(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}
	defer a.close()

	if err := seedConfigs(ctx, a); err != nil {
		a.logger.Fatal("Failed to seed configurations", logger.ErrorField(err))
	}
	a.logger.Info("Initial configuration data created")
}

// seedConfigs creates the default configuration rows and industry
// baselines. Existing rows with the same name are left untouched.
func seedConfigs(ctx context.Context, a *app) error {
	dbConfigs, err := a.dbConfigRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	if !containsName(dbConfigs, func(c entity.DatabaseConfig) string { return c.Name }, "default") {
		if err := a.dbConfigRepo.Create(ctx, &entity.DatabaseConfig{
			Name:              "default",
			Host:              "localhost",
			Port:              9876,
			DatabaseName:      "email_security",
			Username:          "admin",
			Password:          "securepass123",
			ConnectionTimeout: 30,
			MaxConnections:    10,
			IsActive:          true,
			IsDefault:         true,
			TestStatus:        entity.TestStatusNotTested,
		}); err != nil {
			return err
		}
	}

	sentimentConfigs, err := a.sentimentConfigRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	sentimentSeeds := []entity.SentimentConfig{
		{
			Name:                        "default_weighted",
			DefaultAlgorithm:            entity.AlgorithmWeightedAverage,
			DefaultWindowHours:          24,
			TimeDecayFactor:             0.9,
			TrendWeight:                 0.2,
			MinReportsForConfidence:     10,
			EnableIndustryNormalization: true,
			IsActive:                    true,
			IsDefault:                   true,
		},
		{
			Name:                    "simple_ratio",
			DefaultAlgorithm:        entity.AlgorithmSimpleRatio,
			DefaultWindowHours:      24,
			TimeDecayFactor:         1.0,
			TrendWeight:             0.0,
			MinReportsForConfidence: 5,
			IsActive:                true,
		},
	}
	for i := range sentimentSeeds {
		if containsName(sentimentConfigs, func(c entity.SentimentConfig) string { return c.Name }, sentimentSeeds[i].Name) {
			continue
		}
		if err := a.sentimentConfigRepo.Create(ctx, &sentimentSeeds[i]); err != nil {
			return err
		}
	}

	jobConfigs, err := a.jobConfigRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	jobSeeds := []entity.JobConfig{
		{
			Name:                  "default",
			SyncIntervalMinutes:   60,
			SyncBatchSize:         1000,
			SentimentDelayMinutes: 5,
			SegmentDelayMinutes:   10,
			OverallDelayMinutes:   15,
			MaxRetries:            3,
			RetryDelayMinutes:     5,
			CleanupOldJobsDays:    30,
			IsActive:              true,
			IsDefault:             true,
		},
		{
			Name:                  "development",
			SyncIntervalMinutes:   15,
			SyncBatchSize:         500,
			SentimentDelayMinutes: 2,
			SegmentDelayMinutes:   3,
			OverallDelayMinutes:   5,
			MaxRetries:            2,
			RetryDelayMinutes:     2,
			CleanupOldJobsDays:    7,
			IsActive:              true,
		},
	}
	for i := range jobSeeds {
		if containsName(jobConfigs, func(c entity.JobConfig) string { return c.Name }, jobSeeds[i].Name) {
			continue
		}
		if err := a.jobConfigRepo.Create(ctx, &jobSeeds[i]); err != nil {
			return err
		}
	}

	baselines := []entity.IndustryBaseline{
		{Industry: "Technology", BaselineSentiment: 0.65, FNFPRatioBaseline: 1.2, VolatilityFactor: 1.3,
			Description: "Technology companies typically have higher sentiment expectations", IsActive: true},
		{Industry: "Healthcare", BaselineSentiment: 0.70, FNFPRatioBaseline: 0.8, VolatilityFactor: 0.9,
			Description: "Healthcare industry with high reliability requirements", IsActive: true},
		{Industry: "Finance", BaselineSentiment: 0.75, FNFPRatioBaseline: 0.6, VolatilityFactor: 0.8,
			Description: "Financial services with strict security requirements", IsActive: true},
		{Industry: "E-commerce", BaselineSentiment: 0.60, FNFPRatioBaseline: 1.5, VolatilityFactor: 1.4,
			Description: "E-commerce with high volume and variable quality", IsActive: true},
		{Industry: "Manufacturing", BaselineSentiment: 0.68, FNFPRatioBaseline: 1.0, VolatilityFactor: 1.0,
			Description: "Manufacturing industry baseline", IsActive: true},
	}
	for i := range baselines {
		if err := a.baselineRepo.Upsert(ctx, &baselines[i]); err != nil {
			return err
		}
	}
	return nil
}

func containsName[T any](items []T, name func(T) string, target string) bool {
	for _, item := range items {
		if name(item) == target {
			return true
		}
	}
	return false
}

// @title Sentiment Pipeline API
// @version 1.0
// @description Aggregated email-classification sentiment pipeline and query API.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "pipeline-service"}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-pipeline.yaml", "Path to the configuration file")
	serveCmd.Flags().BoolVar(&testRun, "test-run", false, "Run all stages once and exit instead of scheduling")

	rootCmd.AddCommand(serveCmd, runOnceCmd, seedCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing pipeline-service CLI: %s\n", err)
		os.Exit(1)
	}
}
