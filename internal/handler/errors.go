package handler

import (
	"net/http"
	"strconv"

	"grapebd/g2g/internal/auth"
	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/service"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrSelfGift),
		errors.Is(err, service.ErrInactive):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCreds), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrSuspended),
		errors.Is(err, service.ErrProfileInactive):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrStatusConflict),
		errors.Is(err, service.ErrInUse):
		return http.StatusConflict
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers {"error": ...}. Unexpected errors are logged, reported to Sentry
// and hidden behind a generic message.
func writeError(c *gin.Context, err error, action string) {
	status := statusFor(err)
	if status < http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	logging.For("http").WithError(err).WithField("path", c.FullPath()).Errorf("%s failed", action)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	c.JSON(status, gin.H{"error": action + " failed"})
}

// paramID parses a uuid path parameter, answering 400 when it is malformed.
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
