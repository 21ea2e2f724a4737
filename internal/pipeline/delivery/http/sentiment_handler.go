package http

import (
	"net/http"
	"time"

	"sentiment-pipeline/internal/pipeline/dto"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SentimentHandler handles HTTP requests for computed sentiment data.
type SentimentHandler struct {
	scoreRepo   repository.SentimentScoreRepository
	segmentRepo repository.SegmentSentimentRepository
	overallRepo repository.OverallSentimentRepository
	logger      *logger.Logger
}

// NewSentimentHandler creates a new SentimentHandler.
func NewSentimentHandler(
	scoreRepo repository.SentimentScoreRepository,
	segmentRepo repository.SegmentSentimentRepository,
	overallRepo repository.OverallSentimentRepository,
	logger *logger.Logger,
) *SentimentHandler {
	return &SentimentHandler{scoreRepo: scoreRepo, segmentRepo: segmentRepo, overallRepo: overallRepo, logger: logger}
}

// RegisterRoutes registers the sentiment routes to the Echo group.
func (h *SentimentHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/sentiment-scores", h.GetSentimentScores)
	g.GET("/segments", h.GetSegmentSentiments)
	g.GET("/segments/latest", h.GetLatestSegmentSentiments)
	g.GET("/overall", h.GetOverallSentiments)
	g.GET("/overall/latest", h.GetLatestOverallSentiment)
}

// GetSentimentScores godoc
// @Summary Get sentiment scores
// @Description Get all per-customer sentiment scores within a time range, defaulting to the trailing 24 hours
// @Tags sentiment
// @Produce  json
// @Param   from  query   string false    "Range start (RFC3339)"
// @Param   to    query   string false    "Range end (RFC3339)"
// @Success 200 {array} entity.SentimentScore
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sentiment-scores [get]
func (h *SentimentHandler) GetSentimentScores(c echo.Context) error {
	from, to, err := dto.ParseTimeRange(c.QueryParam("from"), c.QueryParam("to"), 24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	scores, err := h.scoreRepo.FindInRange(c.Request().Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to get sentiment scores", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get sentiment scores"})
	}
	return c.JSON(http.StatusOK, scores)
}

// GetSegmentSentiments godoc
// @Summary Get segment sentiment snapshots
// @Description Get per-industry sentiment snapshots within a time range, defaulting to the trailing 24 hours
// @Tags sentiment
// @Produce  json
// @Param   from  query   string false    "Range start (RFC3339)"
// @Param   to    query   string false    "Range end (RFC3339)"
// @Success 200 {array} entity.SegmentSentiment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /segments [get]
func (h *SentimentHandler) GetSegmentSentiments(c echo.Context) error {
	from, to, err := dto.ParseTimeRange(c.QueryParam("from"), c.QueryParam("to"), 24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	segments, err := h.segmentRepo.FindInRange(c.Request().Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to get segment sentiments", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get segment sentiments"})
	}
	return c.JSON(http.StatusOK, segments)
}

// GetLatestSegmentSentiments godoc
// @Summary Get the latest snapshot per industry
// @Description Get the most recent sentiment snapshot of every industry segment
// @Tags sentiment
// @Produce  json
// @Success 200 {array} entity.SegmentSentiment
// @Failure 500 {object} dto.ErrorResponse
// @Router /segments/latest [get]
func (h *SentimentHandler) GetLatestSegmentSentiments(c echo.Context) error {
	segments, err := h.segmentRepo.FindLatestPerSegment(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get latest segment sentiments", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get latest segment sentiments"})
	}
	return c.JSON(http.StatusOK, segments)
}

// GetOverallSentiments godoc
// @Summary Get overall sentiment snapshots
// @Description Get product-wide sentiment snapshots within a time range, defaulting to the trailing 24 hours
// @Tags sentiment
// @Produce  json
// @Param   from  query   string false    "Range start (RFC3339)"
// @Param   to    query   string false    "Range end (RFC3339)"
// @Success 200 {array} entity.OverallSentiment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /overall [get]
func (h *SentimentHandler) GetOverallSentiments(c echo.Context) error {
	from, to, err := dto.ParseTimeRange(c.QueryParam("from"), c.QueryParam("to"), 24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	snapshots, err := h.overallRepo.FindInRange(c.Request().Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to get overall sentiments", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get overall sentiments"})
	}
	return c.JSON(http.StatusOK, snapshots)
}

// GetLatestOverallSentiment godoc
// @Summary Get the latest overall sentiment snapshot
// @Description Get the most recent product-wide sentiment snapshot
// @Tags sentiment
// @Produce  json
// @Success 200 {object} entity.OverallSentiment
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /overall/latest [get]
func (h *SentimentHandler) GetLatestOverallSentiment(c echo.Context) error {
	snapshot, err := h.overallRepo.FindLatest(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get latest overall sentiment", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get latest overall sentiment"})
	}
	if snapshot == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No overall sentiment snapshot yet"})
	}
	return c.JSON(http.StatusOK, snapshot)
}
