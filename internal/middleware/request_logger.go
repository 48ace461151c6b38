package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/taskbank-backend/internal/logger"
)

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	requestLog := log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		requestLog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
