package http

import (
	"net/http"

	"sentiment-pipeline/internal/entity"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BaselineHandler handles HTTP requests for industry baselines.
type BaselineHandler struct {
	baselineRepo repository.IndustryBaselineRepository
	logger       *logger.Logger
}

// NewBaselineHandler creates a new BaselineHandler.
func NewBaselineHandler(baselineRepo repository.IndustryBaselineRepository, logger *logger.Logger) *BaselineHandler {
	return &BaselineHandler{baselineRepo: baselineRepo, logger: logger}
}

// RegisterRoutes registers the baseline routes to the Echo group.
func (h *BaselineHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetBaselines)
	g.PUT("", h.UpsertBaseline)
}

// GetBaselines godoc
// @Summary Get industry baselines
// @Description Get all active industry baseline reference values
// @Tags baselines
// @Produce  json
// @Success 200 {array} entity.IndustryBaseline
// @Failure 500 {object} dto.ErrorResponse
// @Router /baselines [get]
func (h *BaselineHandler) GetBaselines(c echo.Context) error {
	baselines, err := h.baselineRepo.FindActive(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get industry baselines", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get baselines"})
	}
	return c.JSON(http.StatusOK, baselines)
}

// UpsertBaseline godoc
// @Summary Create or update an industry baseline
// @Description Upsert the baseline reference values for one industry
// @Tags baselines
// @Accept  json
// @Produce  json
// @Param   baseline  body    entity.IndustryBaseline   true    "Baseline to upsert"
// @Success 200 {object} entity.IndustryBaseline
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /baselines [put]
func (h *BaselineHandler) UpsertBaseline(c echo.Context) error {
	var baseline entity.IndustryBaseline
	if err := c.Bind(&baseline); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if baseline.Industry == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "industry is required"})
	}

	if err := h.baselineRepo.Upsert(c.Request().Context(), &baseline); err != nil {
		h.logger.Error("Failed to upsert industry baseline", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to upsert baseline"})
	}
	return c.JSON(http.StatusOK, baseline)
}
