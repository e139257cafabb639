package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sysneld1/dialogue-generator/internal/logger"
)

// Logging logs HTTP requests.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		// Log format: [method] path?query - status (latency)
		logger.Debugf("[%s] %s - %d (%v)", c.Request.Method, path, statusCode, latency)
	}
}
