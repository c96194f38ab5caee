package middleware

import (
	"time"

	"grapebd/g2g/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request. Health checks are skipped.
func RequestLogger() gin.HandlerFunc {
	log := logging.For("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/health" {
			return
		}
		fields := logrus.Fields{
			"status":  c.Writer.Status(),
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}
		if id := GetProfileID(c); id != uuid.Nil {
			fields["profile_id"] = id
		}
		entry := log.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("request rejected")
		default:
			entry.Debug("request")
		}
	}
}
