package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling label names
const (
	ProfilingLabelMethod   = "method"
	ProfilingLabelRoute    = "route"
	ProfilingLabelResource = "resource"
)

var profilingSkipPrefixes = []string{"/health", "/api/health", "/swagger"}

// Profiling tags the goroutines serving a request with Pyroscope labels
// (method, route pattern and resource) so CPU and allocation profiles can
// be sliced per endpoint. Health checks and the API docs are skipped.
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || skipProfiling(route) {
			c.Next()
			return
		}

		labels := []string{ProfilingLabelMethod, c.Request.Method, ProfilingLabelRoute, route}
		if resource := resourceFromRoute(route); resource != "" {
			labels = append(labels, ProfilingLabelResource, resource)
		}

		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(labels...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func skipProfiling(route string) bool {
	for _, prefix := range profilingSkipPrefixes {
		if strings.HasPrefix(route, prefix) {
			return true
		}
	}
	return false
}

// resourceFromRoute returns the first static segment after /api,
// e.g. "/api/sales/:id/status" -> "sales"
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return ""
}
