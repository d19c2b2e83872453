package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/corebooks/corebooks/internal/core/ports/services"
	"github.com/corebooks/corebooks/internal/dto"
	"github.com/corebooks/corebooks/internal/middleware"
)

// reportingHandler serves aggregate views over posted entries.
type reportingHandler struct {
	ledgerService portssvc.LedgerReaderSvc
}

func newReportingHandler(ledgerService portssvc.LedgerReaderSvc) *reportingHandler {
	return &reportingHandler{ledgerService: ledgerService}
}

// getTrialBalance godoc
// @Summary Get a trial balance
// @Description Aggregates posted debit/credit totals per account over the inclusive date range
// @Tags reporting
// @Produce  json
// @Param   startDate query string true "Inclusive start date (RFC 3339)"
// @Param   endDate query string true "Inclusive end date (RFC 3339)"
// @Success 200 {object} dto.TrialBalanceResponse "Per-account totals ordered by code"
// @Failure 400 {object} map[string]string "Missing or invalid dates"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	start, err := time.Parse(time.RFC3339, c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidParam("startDate", c.Query("startDate")).Error()})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidParam("endDate", c.Query("endDate")).Error()})
		return
	}

	rows, err := h.ledgerService.GetTrialBalance(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.TrialBalanceResponse{StartDate: start, EndDate: end, Rows: rows})
}

// registerReportingRoutes registers aggregate reporting routes.
func registerReportingRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerReaderSvc) {
	h := newReportingHandler(ledgerService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
	}
}
