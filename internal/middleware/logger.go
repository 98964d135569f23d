package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger journalise chaque requête avec zap
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		}
		switch {
		case status >= 500:
			zap.S().Errorw("❌ requête", fields...)
		case status >= 400:
			zap.S().Warnw("⚠️ requête", fields...)
		default:
			zap.S().Debugw("requête", fields...)
		}
	}
}
