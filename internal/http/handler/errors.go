package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/extraction"
	"bmgrades.app/tracker/internal/gradebook"
	"bmgrades.app/tracker/internal/grading"
	"bmgrades.app/tracker/internal/service"
	"bmgrades.app/tracker/internal/store"
)

// statusFor maps a service error to its HTTP status and the message shown to
// the client.
func statusFor(err error) (int, string) {
	var declared *extraction.DeclaredError
	var upstream *extraction.UpstreamError

	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, gradebook.ErrEntryNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "already exists"
	case errors.Is(err, gradebook.ErrUnknownSubject),
		errors.Is(err, gradebook.ErrNotExamined),
		errors.Is(err, gradebook.ErrGradeOutOfRange),
		errors.Is(err, gradebook.ErrInvalidSemester),
		errors.Is(err, grading.ErrInvalidWeight),
		errors.Is(err, curriculum.ErrUnknownBMType),
		errors.Is(err, service.ErrInvalidScan):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, service.ErrScanUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.As(err, &declared):
		return http.StatusUnprocessableEntity, declared.Message
	case errors.Is(err, extraction.ErrTimeout):
		return http.StatusGatewayTimeout, "the image could not be read in time, please try again"
	case errors.Is(err, extraction.ErrMalformedResult):
		return http.StatusBadGateway, "the image could not be read"
	case errors.As(err, &upstream):
		if upstream.Retryable {
			return http.StatusServiceUnavailable, "the vision service is busy, please try again"
		}
		return http.StatusBadGateway, "the vision service rejected the request"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "error", err, "status", status)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	slog.WarnContext(c.Request.Context(), "invalid request body", "error", err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}
