package http

import (
	"net/http"
	"strconv"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/dto"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ConfigHandler handles HTTP requests for the three admin-managed
// configuration families.
type ConfigHandler struct {
	dbConfigRepo        repository.DatabaseConfigRepository
	sentimentConfigRepo repository.SentimentConfigRepository
	jobConfigRepo       repository.JobConfigRepository
	logger              *logger.Logger
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(
	dbConfigRepo repository.DatabaseConfigRepository,
	sentimentConfigRepo repository.SentimentConfigRepository,
	jobConfigRepo repository.JobConfigRepository,
	logger *logger.Logger,
) *ConfigHandler {
	return &ConfigHandler{
		dbConfigRepo:        dbConfigRepo,
		sentimentConfigRepo: sentimentConfigRepo,
		jobConfigRepo:       jobConfigRepo,
		logger:              logger,
	}
}

// RegisterRoutes registers the configuration routes to the Echo group.
func (h *ConfigHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/database", h.GetDatabaseConfigs)
	g.POST("/database", h.CreateDatabaseConfig)
	g.POST("/database/:id/default", h.SetDefaultDatabaseConfig)

	g.GET("/sentiment", h.GetSentimentConfigs)
	g.POST("/sentiment", h.CreateSentimentConfig)
	g.POST("/sentiment/:id/default", h.SetDefaultSentimentConfig)

	g.GET("/job", h.GetJobConfigs)
	g.POST("/job", h.CreateJobConfig)
	g.POST("/job/:id/default", h.SetDefaultJobConfig)
}

// GetDatabaseConfigs godoc
// @Summary Get database configurations
// @Description Get all source database connection profiles
// @Tags configs
// @Produce  json
// @Success 200 {array} entity.DatabaseConfig
// @Failure 500 {object} dto.ErrorResponse
// @Router /configs/database [get]
func (h *ConfigHandler) GetDatabaseConfigs(c echo.Context) error {
	configs, err := h.dbConfigRepo.FindAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get database configs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get database configs"})
	}
	return c.JSON(http.StatusOK, configs)
}

// CreateDatabaseConfig godoc
// @Summary Create a database configuration
// @Description Create a new source database connection profile
// @Tags configs
// @Accept  json
// @Produce  json
// @Param   config  body    dto.CreateDatabaseConfigRequest   true    "Configuration to create"
// @Success 201 {object} entity.DatabaseConfig
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /configs/database [post]
func (h *ConfigHandler) CreateDatabaseConfig(c echo.Context) error {
	var req dto.CreateDatabaseConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Name == "" || req.Host == "" || req.DatabaseName == "" || req.Username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, host, database_name and username are required"})
	}

	config := &entity.DatabaseConfig{
		Name:              req.Name,
		Host:              req.Host,
		Port:              req.Port,
		DatabaseName:      req.DatabaseName,
		Username:          req.Username,
		Password:          req.Password,
		ConnectionTimeout: req.ConnectionTimeout,
		MaxConnections:    req.MaxConnections,
		IsActive:          true,
		TestStatus:        entity.TestStatusNotTested,
	}
	if config.Port == 0 {
		config.Port = 5432
	}
	if config.ConnectionTimeout == 0 {
		config.ConnectionTimeout = 30
	}
	if config.MaxConnections == 0 {
		config.MaxConnections = 10
	}
	if req.IsActive != nil {
		config.IsActive = *req.IsActive
	}

	if err := h.dbConfigRepo.Create(c.Request().Context(), config); err != nil {
		h.logger.Error("Failed to create database config", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create database config"})
	}
	return c.JSON(http.StatusCreated, config)
}

// SetDefaultDatabaseConfig godoc
// @Summary Set the default database configuration
// @Description Mark one profile as default and clear the flag on all others atomically
// @Tags configs
// @Produce  json
// @Param   id  path    int true    "Configuration ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /configs/database/{id}/default [post]
func (h *ConfigHandler) SetDefaultDatabaseConfig(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid config ID"})
	}
	if err := h.dbConfigRepo.SetDefault(c.Request().Context(), uint(id)); err != nil {
		h.logger.Error("Failed to set default database config", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "default updated"})
}

// GetSentimentConfigs godoc
// @Summary Get sentiment configurations
// @Description Get all sentiment calculation parameter sets
// @Tags configs
// @Produce  json
// @Success 200 {array} entity.SentimentConfig
// @Failure 500 {object} dto.ErrorResponse
// @Router /configs/sentiment [get]
func (h *ConfigHandler) GetSentimentConfigs(c echo.Context) error {
	configs, err := h.sentimentConfigRepo.FindAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get sentiment configs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get sentiment configs"})
	}
	return c.JSON(http.StatusOK, configs)
}

// CreateSentimentConfig godoc
// @Summary Create a sentiment configuration
// @Description Create a new sentiment calculation parameter set
// @Tags configs
// @Accept  json
// @Produce  json
// @Param   config  body    dto.CreateSentimentConfigRequest   true    "Configuration to create"
// @Success 201 {object} entity.SentimentConfig
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /configs/sentiment [post]
func (h *ConfigHandler) CreateSentimentConfig(c echo.Context) error {
	var req dto.CreateSentimentConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.DefaultAlgorithm != "" &&
		req.DefaultAlgorithm != entity.AlgorithmSimpleRatio &&
		req.DefaultAlgorithm != entity.AlgorithmWeightedAverage {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown algorithm"})
	}

	config := &entity.SentimentConfig{
		Name:                        req.Name,
		DefaultAlgorithm:            req.DefaultAlgorithm,
		DefaultWindowHours:          req.DefaultWindowHours,
		TimeDecayFactor:             req.TimeDecayFactor,
		TrendWeight:                 req.TrendWeight,
		MinReportsForConfidence:     req.MinReportsForConfidence,
		EnableIndustryNormalization: true,
		IsActive:                    true,
	}
	if config.DefaultAlgorithm == "" {
		config.DefaultAlgorithm = entity.AlgorithmWeightedAverage
	}
	if config.DefaultWindowHours == 0 {
		config.DefaultWindowHours = 24
	}
	if config.TimeDecayFactor == 0 {
		config.TimeDecayFactor = 0.9
	}
	if config.MinReportsForConfidence == 0 {
		config.MinReportsForConfidence = 10
	}
	if req.EnableIndustryNormalization != nil {
		config.EnableIndustryNormalization = *req.EnableIndustryNormalization
	}
	if req.IsActive != nil {
		config.IsActive = *req.IsActive
	}

	if err := h.sentimentConfigRepo.Create(c.Request().Context(), config); err != nil {
		h.logger.Error("Failed to create sentiment config", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create sentiment config"})
	}
	return c.JSON(http.StatusCreated, config)
}

// SetDefaultSentimentConfig godoc
// @Summary Set the default sentiment configuration
// @Description Mark one parameter set as default and clear the flag on all others atomically
// @Tags configs
// @Produce  json
// @Param   id  path    int true    "Configuration ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /configs/sentiment/{id}/default [post]
func (h *ConfigHandler) SetDefaultSentimentConfig(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid config ID"})
	}
	if err := h.sentimentConfigRepo.SetDefault(c.Request().Context(), uint(id)); err != nil {
		h.logger.Error("Failed to set default sentiment config", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "default updated"})
}

// GetJobConfigs godoc
// @Summary Get job configurations
// @Description Get all scheduler timing profiles
// @Tags configs
// @Produce  json
// @Success 200 {array} entity.JobConfig
// @Failure 500 {object} dto.ErrorResponse
// @Router /configs/job [get]
func (h *ConfigHandler) GetJobConfigs(c echo.Context) error {
	configs, err := h.jobConfigRepo.FindAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get job configs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get job configs"})
	}
	return c.JSON(http.StatusOK, configs)
}

// CreateJobConfig godoc
// @Summary Create a job configuration
// @Description Create a new scheduler timing profile; applied on the next scheduler restart
// @Tags configs
// @Accept  json
// @Produce  json
// @Param   config  body    dto.CreateJobConfigRequest   true    "Configuration to create"
// @Success 201 {object} entity.JobConfig
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /configs/job [post]
func (h *ConfigHandler) CreateJobConfig(c echo.Context) error {
	var req dto.CreateJobConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	config := &entity.JobConfig{
		Name:                  req.Name,
		SyncIntervalMinutes:   req.SyncIntervalMinutes,
		SyncBatchSize:         req.SyncBatchSize,
		SentimentDelayMinutes: req.SentimentDelayMinutes,
		SegmentDelayMinutes:   req.SegmentDelayMinutes,
		OverallDelayMinutes:   req.OverallDelayMinutes,
		MaxRetries:            req.MaxRetries,
		RetryDelayMinutes:     req.RetryDelayMinutes,
		CleanupOldJobsDays:    req.CleanupOldJobsDays,
		IsActive:              true,
	}
	if config.SyncIntervalMinutes == 0 {
		config.SyncIntervalMinutes = 60
	}
	if config.SyncBatchSize == 0 {
		config.SyncBatchSize = 1000
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelayMinutes == 0 {
		config.RetryDelayMinutes = 5
	}
	if config.CleanupOldJobsDays == 0 {
		config.CleanupOldJobsDays = 30
	}
	if req.IsActive != nil {
		config.IsActive = *req.IsActive
	}

	if err := h.jobConfigRepo.Create(c.Request().Context(), config); err != nil {
		h.logger.Error("Failed to create job config", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create job config"})
	}
	return c.JSON(http.StatusCreated, config)
}

// SetDefaultJobConfig godoc
// @Summary Set the default job configuration
// @Description Mark one timing profile as default and clear the flag on all others atomically
// @Tags configs
// @Produce  json
// @Param   id  path    int true    "Configuration ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /configs/job/{id}/default [post]
func (h *ConfigHandler) SetDefaultJobConfig(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid config ID"})
	}
	if err := h.jobConfigRepo.SetDefault(c.Request().Context(), uint(id)); err != nil {
		h.logger.Error("Failed to set default job config", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "default updated"})
}
