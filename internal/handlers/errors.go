package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
)

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	var appErr *apperrors.AppError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		logger.Warn("Request body too large: "+action, slog.Int64("limit", tooLarge.Limit))
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)})
	case errors.As(err, &appErr) && appErr.Code != 0:
		logger.Warn(action+" failed", slog.String("error", err.Error()))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error: "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Not found: "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict: "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}
