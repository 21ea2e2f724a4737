package http

import (
	"net/http"
	"strconv"

	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/internal/pipeline/service"
	"sentiment-pipeline/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultExecutionLimit = 50

// SchedulerHandler handles HTTP requests for scheduler control and stage
// run history.
type SchedulerHandler struct {
	scheduler   service.SchedulerService
	historyRepo repository.StageRunHistoryRepository
	logger      *logger.Logger
}

// NewSchedulerHandler creates a new SchedulerHandler.
func NewSchedulerHandler(scheduler service.SchedulerService, historyRepo repository.StageRunHistoryRepository, logger *logger.Logger) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler, historyRepo: historyRepo, logger: logger}
}

// RegisterRoutes registers the scheduler routes to the Echo group.
func (h *SchedulerHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/scheduler/status", h.GetSchedulerStatus)
	g.POST("/scheduler/jobs/:id/run", h.RunJobNow)
	g.GET("/executions", h.GetExecutions)
}

// GetSchedulerStatus godoc
// @Summary Get scheduler status
// @Description Get whether the scheduler is running and the next run time of each job
// @Tags scheduler
// @Produce  json
// @Success 200 {object} dto.SchedulerStatus
// @Router /scheduler/status [get]
func (h *SchedulerHandler) GetSchedulerStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scheduler.Status())
}

// RunJobNow godoc
// @Summary Trigger a scheduled job immediately
// @Description Run one pipeline job outside its schedule; overlapping runs of the same job are skipped
// @Tags scheduler
// @Produce  json
// @Param   id  path    string true    "Job ID"
// @Success 202 {object} map[string]string
// @Failure 404 {object} dto.ErrorResponse
// @Router /scheduler/jobs/{id}/run [post]
func (h *SchedulerHandler) RunJobNow(c echo.Context) error {
	jobID := c.Param("id")
	if !h.scheduler.RunJobNow(jobID) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found or scheduler not running"})
	}
	return c.JSON(http.StatusAccepted, echo.Map{"status": "triggered", "job_id": jobID})
}

// GetExecutions godoc
// @Summary Get stage run history
// @Description Get recent stage run records, optionally filtered by stage
// @Tags scheduler
// @Produce  json
// @Param   stage  query   string false    "Filter by stage name"
// @Param   limit  query   int false    "Maximum rows to return"
// @Success 200 {array} entity.StageRunHistory
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /executions [get]
func (h *SchedulerHandler) GetExecutions(c echo.Context) error {
	limit := defaultExecutionLimit
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
		}
		limit = parsed
	}

	var err error
	var histories interface{}
	if stage := c.QueryParam("stage"); stage != "" {
		histories, err = h.historyRepo.FindRecentByStage(c.Request().Context(), stage, limit)
	} else {
		histories, err = h.historyRepo.FindRecent(c.Request().Context(), limit)
	}
	if err != nil {
		h.logger.Error("Failed to get stage run history", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get executions"})
	}
	return c.JSON(http.StatusOK, histories)
}
