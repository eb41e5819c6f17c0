package middleware

import (
	"time"

	"fxvault.backend/pkg/logger"
	"fxvault.backend/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// LoggerMiddleware logs every request and records it in the HTTP metrics. Routes are
// labelled by their pattern so ids do not explode label cardinality.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, status, latency)
		logger.LogRequest(c.Request.Context(), c.Request.Method, path, status, latency, c.ClientIP())
	}
}
