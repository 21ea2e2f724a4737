package http

import (
	"net/http"
	"time"

	"sentiment-pipeline/internal/pipeline/dto"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SyncJobHandler handles HTTP requests for raw sync job records.
type SyncJobHandler struct {
	syncJobRepo repository.SyncJobRepository
	logger      *logger.Logger
}

// NewSyncJobHandler creates a new SyncJobHandler.
func NewSyncJobHandler(syncJobRepo repository.SyncJobRepository, logger *logger.Logger) *SyncJobHandler {
	return &SyncJobHandler{syncJobRepo: syncJobRepo, logger: logger}
}

// RegisterRoutes registers the sync job routes to the Echo group.
func (h *SyncJobHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetSyncJobs)
	g.GET("/summary", h.GetSyncJobSummary)
}

// GetSyncJobs godoc
// @Summary Get sync jobs
// @Description Get sync job records whose window falls inside a time range, defaulting to the trailing 24 hours
// @Tags sync-jobs
// @Produce  json
// @Param   from    query   string false    "Range start (RFC3339)"
// @Param   to      query   string false    "Range end (RFC3339)"
// @Param   status  query   string false    "Filter by job status"
// @Success 200 {array} entity.SyncJob
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sync-jobs [get]
func (h *SyncJobHandler) GetSyncJobs(c echo.Context) error {
	from, to, err := dto.ParseTimeRange(c.QueryParam("from"), c.QueryParam("to"), 24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	jobs, err := h.syncJobRepo.FindInRange(c.Request().Context(), from, to, c.QueryParam("status"))
	if err != nil {
		h.logger.Error("Failed to get sync jobs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get sync jobs"})
	}
	return c.JSON(http.StatusOK, jobs)
}

// GetSyncJobSummary godoc
// @Summary Get sync job status summary
// @Description Get sync job counts grouped by status for the trailing 24 hours
// @Tags sync-jobs
// @Produce  json
// @Success 200 {object} map[string]int64
// @Failure 500 {object} dto.ErrorResponse
// @Router /sync-jobs/summary [get]
func (h *SyncJobHandler) GetSyncJobSummary(c echo.Context) error {
	counts, err := h.syncJobRepo.CountByStatusSince(c.Request().Context(), time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		h.logger.Error("Failed to get sync job summary", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get sync job summary"})
	}
	return c.JSON(http.StatusOK, counts)
}
