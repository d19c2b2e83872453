package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corebooks/corebooks/internal/apperrors"
)

// errInvalidParam builds the error for an unparseable query parameter.
func errInvalidParam(name, value string) error {
	return fmt.Errorf("invalid value for %s: %q", name, value)
}

// respondServiceError translates service layer errors into HTTP responses.
// Validation failures return every accumulated message so the caller can fix
// all problems in one round trip.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		if msgs := apperrors.MessagesOf(err); len(msgs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": msgs})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPeriodClosed):
		logger.Warn("Fiscal period rejects posting", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrEntryState):
		logger.Warn("Entry state conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
