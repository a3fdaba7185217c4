package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AccessLog writes one logrus entry per request once the handler chain has run.
func AccessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"route":      c.FullPath(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         ipFromCtx(c),
			"request_id": c.GetString(CtxRequestIDKey),
		})
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			entry = entry.WithField("user_id", uid)
		}
		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
