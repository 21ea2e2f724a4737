package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"sentiment-pipeline/internal/pipeline/dto"
	"sentiment-pipeline/internal/pipeline/repository"
	"sentiment-pipeline/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CustomerHandler handles HTTP requests for synced customers.
type CustomerHandler struct {
	customerRepo repository.CustomerRepository
	scoreRepo    repository.SentimentScoreRepository
	logger       *logger.Logger
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerRepo repository.CustomerRepository, scoreRepo repository.SentimentScoreRepository, logger *logger.Logger) *CustomerHandler {
	return &CustomerHandler{customerRepo: customerRepo, scoreRepo: scoreRepo, logger: logger}
}

// RegisterRoutes registers the customer routes to the Echo group.
func (h *CustomerHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAllCustomers)
	g.GET("/:id", h.GetCustomerByID)
	g.GET("/:id/sentiment-scores", h.GetCustomerSentimentScores)
}

// GetAllCustomers godoc
// @Summary Get all customers
// @Description Get all customers mirrored from the source database
// @Tags customers
// @Produce  json
// @Success 200 {array} entity.Customer
// @Failure 500 {object} dto.ErrorResponse
// @Router /customers [get]
func (h *CustomerHandler) GetAllCustomers(c echo.Context) error {
	customers, err := h.customerRepo.FindAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get customers", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get customers"})
	}
	return c.JSON(http.StatusOK, customers)
}

// GetCustomerByID godoc
// @Summary Get a customer by ID
// @Description Get a single customer by its internal ID
// @Tags customers
// @Produce  json
// @Param   id  path    int true    "Customer ID"
// @Success 200 {object} entity.Customer
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomerByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid customer ID"})
	}

	customer, err := h.customerRepo.FindByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
		}
		h.logger.Error("Failed to get customer", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get customer"})
	}
	return c.JSON(http.StatusOK, customer)
}

// GetCustomerSentimentScores godoc
// @Summary Get sentiment scores for a customer
// @Description Get a customer's sentiment scores within a time range, defaulting to the trailing 24 hours
// @Tags customers
// @Produce  json
// @Param   id    path    int true    "Customer ID"
// @Param   from  query   string false    "Range start (RFC3339)"
// @Param   to    query   string false    "Range end (RFC3339)"
// @Success 200 {array} entity.SentimentScore
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /customers/{id}/sentiment-scores [get]
func (h *CustomerHandler) GetCustomerSentimentScores(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid customer ID"})
	}

	from, to, err := dto.ParseTimeRange(c.QueryParam("from"), c.QueryParam("to"), 24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	scores, err := h.scoreRepo.FindByCustomerInRange(c.Request().Context(), uint(id), from, to)
	if err != nil {
		h.logger.Error("Failed to get customer sentiment scores", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get sentiment scores"})
	}
	return c.JSON(http.StatusOK, scores)
}
