package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/corebooks/corebooks/internal/core/ports/services"
	"github.com/corebooks/corebooks/internal/dto"
	"github.com/corebooks/corebooks/internal/middleware"
)

// recurrenceHandler handles HTTP requests for templates, recurring patterns,
// and on-demand generation runs.
type recurrenceHandler struct {
	recurrenceService portssvc.RecurrenceSvcFacade
}

// newRecurrenceHandler creates a new recurrenceHandler.
func newRecurrenceHandler(recurrenceService portssvc.RecurrenceSvcFacade) *recurrenceHandler {
	return &recurrenceHandler{recurrenceService: recurrenceService}
}

// createTemplate godoc
// @Summary Create an entry template
// @Description Persists a balanced line shape for recurring generation
// @Tags recurrence
// @Accept  json
// @Produce  json
// @Param   template body dto.CreateTemplateRequest true "Template header and lines"
// @Success 201 {object} dto.TemplateResponse "The created template"
// @Failure 400 {object} map[string][]string "Validation errors"
// @Router /templates/ [post]
func (h *recurrenceHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	template, err := h.recurrenceService.CreateTemplate(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create template")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTemplateResponse(template))
}

// getTemplate godoc
// @Summary Get an entry template
// @Description Retrieves a template with its lines
// @Tags recurrence
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse "Template with lines"
// @Failure 404 {object} map[string]string "Template not found"
// @Router /templates/{templateID} [get]
func (h *recurrenceHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")

	template, err := h.recurrenceService.GetTemplate(c.Request.Context(), templateID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve template")
		return
	}
	c.JSON(http.StatusOK, dto.ToTemplateResponse(template))
}

// createPattern godoc
// @Summary Create a recurring pattern
// @Description Schedules automatic entry generation over an existing template
// @Tags recurrence
// @Accept  json
// @Produce  json
// @Param   pattern body dto.CreatePatternRequest true "Schedule over an existing template"
// @Success 201 {object} dto.PatternResponse "The created pattern"
// @Failure 400 {object} map[string][]string "Validation errors"
// @Failure 404 {object} map[string]string "Template not found"
// @Router /patterns/ [post]
func (h *recurrenceHandler) createPattern(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createPattern", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pattern, err := h.recurrenceService.CreatePattern(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create pattern")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPatternResponse(pattern))
}

// listPatterns godoc
// @Summary List recurring patterns
// @Description Retrieves patterns ordered by name
// @Tags recurrence
// @Produce  json
// @Param   activeOnly query bool false "Restrict to active patterns"
// @Success 200 {array} dto.PatternResponse "Patterns"
// @Router /patterns/ [get]
func (h *recurrenceHandler) listPatterns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	activeOnly := false
	if v := c.Query("activeOnly"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidParam("activeOnly", v).Error()})
			return
		}
		activeOnly = parsed
	}

	patterns, err := h.recurrenceService.ListPatterns(c.Request.Context(), activeOnly)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list patterns")
		return
	}

	responses := make([]dto.PatternResponse, len(patterns))
	for i := range patterns {
		responses[i] = dto.ToPatternResponse(&patterns[i])
	}
	c.JSON(http.StatusOK, responses)
}

// deactivatePattern godoc
// @Summary Deactivate a recurring pattern
// @Description Switches a pattern off without deleting it or its history
// @Tags recurrence
// @Produce  json
// @Param   patternID path string true "Pattern ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Pattern not found"
// @Router /patterns/{patternID} [delete]
func (h *recurrenceHandler) deactivatePattern(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patternID := c.Param("patternID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.recurrenceService.DeactivatePattern(c.Request.Context(), patternID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate pattern")
		return
	}
	c.Status(http.StatusNoContent)
}

// generateEntries godoc
// @Summary Run recurring entry generation
// @Description Creates one draft entry per due pattern; patterns fail independently
// @Tags recurrence
// @Produce  json
// @Param   asOf query string false "Generation cutoff date (RFC 3339), defaults to now"
// @Success 200 {array} dto.GenerationResultResponse "Per-pattern results"
// @Router /patterns/generate [post]
func (h *recurrenceHandler) generateEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf := time.Now().UTC()
	if v := c.Query("asOf"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidParam("asOf", v).Error()})
			return
		}
		asOf = parsed
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	results, err := h.recurrenceService.Generate(c.Request.Context(), asOf, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to run generation")
		return
	}
	c.JSON(http.StatusOK, results)
}

// registerRecurrenceRoutes registers template and pattern routes.
func registerRecurrenceRoutes(group *gin.RouterGroup, recurrenceService portssvc.RecurrenceSvcFacade) {
	h := newRecurrenceHandler(recurrenceService)

	templates := group.Group("/templates")
	{
		templates.POST("/", h.createTemplate)
		templates.GET("/:templateID", h.getTemplate)
	}

	patterns := group.Group("/patterns")
	{
		patterns.POST("/", h.createPattern)
		patterns.GET("/", h.listPatterns)
		patterns.DELETE("/:patternID", h.deactivatePattern)
		patterns.POST("/generate", h.generateEntries)
	}
}
