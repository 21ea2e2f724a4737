package http

import (
	"net/http"

	"sentiment-pipeline/internal/pipeline/service"
	"sentiment-pipeline/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardHandler handles HTTP requests for the dashboard summary.
type DashboardHandler struct {
	dashboardSvc service.DashboardService
	logger       *logger.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardSvc service.DashboardService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc, logger: logger}
}

// RegisterRoutes registers the dashboard routes to the Echo group.
func (h *DashboardHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/summary", h.GetSummary)
}

// GetSummary godoc
// @Summary Get dashboard summary
// @Description Get the latest overall sentiment, today's report volume and the per-industry breakdown
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.DashboardSummary
// @Failure 500 {object} dto.ErrorResponse
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	summary, err := h.dashboardSvc.Summary(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard summary", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to build dashboard summary"})
	}
	return c.JSON(http.StatusOK, summary)
}
