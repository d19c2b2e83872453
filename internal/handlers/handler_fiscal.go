package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/corebooks/corebooks/internal/core/ports/services"
	"github.com/corebooks/corebooks/internal/dto"
	"github.com/corebooks/corebooks/internal/middleware"
)

// fiscalHandler handles HTTP requests for the fiscal calendar.
type fiscalHandler struct {
	fiscalService portssvc.FiscalSvcFacade
}

// newFiscalHandler creates a new fiscalHandler.
func newFiscalHandler(fiscalService portssvc.FiscalSvcFacade) *fiscalHandler {
	return &fiscalHandler{fiscalService: fiscalService}
}

// createFiscalYear godoc
// @Summary Create a fiscal year
// @Description Creates a fiscal year and auto-generates its periods at the requested granularity
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   year body dto.CreateFiscalYearRequest true "Year range and period granularity"
// @Success 201 {object} dto.FiscalYearResponse "The created year with its periods"
// @Failure 400 {object} map[string][]string "Validation errors"
// @Failure 409 {object} map[string]string "Overlapping or duplicate year"
// @Router /fiscal-years/ [post]
func (h *fiscalHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createFiscalYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	year, periods, err := h.fiscalService.CreateYear(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create fiscal year")
		return
	}
	c.JSON(http.StatusCreated, dto.ToFiscalYearResponse(year, periods))
}

// listFiscalYears godoc
// @Summary List fiscal years
// @Description Retrieves all fiscal years ordered by start date
// @Tags fiscal
// @Produce  json
// @Success 200 {array} dto.FiscalYearResponse "Fiscal years"
// @Router /fiscal-years/ [get]
func (h *fiscalHandler) listFiscalYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	years, err := h.fiscalService.ListYears(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list fiscal years")
		return
	}

	responses := make([]dto.FiscalYearResponse, len(years))
	for i := range years {
		responses[i] = dto.ToFiscalYearResponse(&years[i], nil)
	}
	c.JSON(http.StatusOK, responses)
}

// listFiscalPeriods godoc
// @Summary List a year's fiscal periods
// @Description Retrieves a year's periods ordered by period number
// @Tags fiscal
// @Produce  json
// @Param   yearID path string true "Fiscal year ID"
// @Success 200 {array} dto.FiscalPeriodResponse "Periods"
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Router /fiscal-years/{yearID}/periods [get]
func (h *fiscalHandler) listFiscalPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	yearID := c.Param("yearID")

	periods, err := h.fiscalService.ListPeriods(c.Request.Context(), yearID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list fiscal periods")
		return
	}

	responses := make([]dto.FiscalPeriodResponse, len(periods))
	for i := range periods {
		responses[i] = dto.ToFiscalPeriodResponse(&periods[i])
	}
	c.JSON(http.StatusOK, responses)
}

// setPeriodStatus godoc
// @Summary Set a fiscal period's status
// @Description Transitions a period between OPEN, CLOSED, and ARCHIVED
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   periodID path string true "Fiscal period ID"
// @Param   status body dto.UpdatePeriodStatusRequest true "Target status"
// @Success 204 "Status updated"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Router /fiscal-periods/{periodID}/status [put]
func (h *fiscalHandler) setPeriodStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	var req dto.UpdatePeriodStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for setPeriodStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.fiscalService.SetPeriodStatus(c.Request.Context(), periodID, req.Status, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to update period status")
		return
	}
	c.Status(http.StatusNoContent)
}

// closeFiscalYear godoc
// @Summary Close a fiscal year
// @Description Closes a year once all its periods are closed or archived
// @Tags fiscal
// @Produce  json
// @Param   yearID path string true "Fiscal year ID"
// @Success 204 "Year closed"
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 409 {object} map[string]string "A period is still open"
// @Router /fiscal-years/{yearID}/close [post]
func (h *fiscalHandler) closeFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	yearID := c.Param("yearID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.fiscalService.CloseYear(c.Request.Context(), yearID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to close fiscal year")
		return
	}
	c.Status(http.StatusNoContent)
}

// registerFiscalRoutes registers fiscal calendar routes.
func registerFiscalRoutes(group *gin.RouterGroup, fiscalService portssvc.FiscalSvcFacade) {
	h := newFiscalHandler(fiscalService)

	years := group.Group("/fiscal-years")
	{
		years.POST("/", h.createFiscalYear)
		years.GET("/", h.listFiscalYears)
		years.GET("/:yearID/periods", h.listFiscalPeriods)
		years.POST("/:yearID/close", h.closeFiscalYear)
	}

	periods := group.Group("/fiscal-periods")
	{
		periods.PUT("/:periodID/status", h.setPeriodStatus)
	}
}
