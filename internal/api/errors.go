package api

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"medicine-verify/internal/verify"
)

var errInvalidBody = errors.New("invalid request body")

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, verify.ErrMissingMedicine) {
		return http.StatusBadRequest
	}
	if errors.Is(err, errInvalidBody) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// captureError reports an unexpected failure to Sentry. Without sentry.Init this is a no-op.
func captureError(c *gin.Context, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("route", c.FullPath())
		scope.SetRequest(c.Request)
		sentry.CaptureException(err)
	})
}
