package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alcyxob/session-planner/internal/domain"
	"alcyxob/session-planner/internal/planner"
	"alcyxob/session-planner/internal/service"
)

// noDataMessage is what callers see when the catalog cannot be fetched.
const noDataMessage = "No data available."

// statusForError maps service errors onto HTTP responses.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCriteria), errors.Is(err, service.ErrValidationFailed):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, planner.ErrExerciseNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, planner.ErrMalformedRecord):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, noDataMessage
	case errors.Is(err, service.ErrStorageNotConfigured):
		return http.StatusNotImplemented, err.Error()
	}
	return http.StatusInternalServerError, "An unexpected error occurred."
}

func respondWithError(c *gin.Context, log *zap.Logger, err error) {
	code, message := statusForError(err)
	if code >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Int("status", code), zap.Error(err))
	} else {
		log.Warn("request rejected", zap.String("path", c.FullPath()), zap.Int("status", code), zap.Error(err))
	}
	abortWithError(c, code, message)
}
