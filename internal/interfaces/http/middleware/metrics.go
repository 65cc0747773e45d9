// Package middleware provides the gin middleware chain of the API server.
package middleware

import (
	"time"

	"github.com/bizdesk/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

// HTTPMetrics records request count and latency per matched route.
// A nil m disables recording.
func HTTPMetrics(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		m.RecordRequest(c.Request.Context(), c.Request.Method, routePattern(c), c.Writer.Status(), time.Since(start))
	}
}

// routePattern returns the matched route template so that path parameters
// do not explode metric cardinality
func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}
