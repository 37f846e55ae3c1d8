package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"project-task-api/internal/metrics"
)

// UnmatchedRoute labels requests that hit no registered route
const UnmatchedRoute = "unmatched"

// Metrics records count and latency per route pattern with basePath trimmed,
// so /api/projects/:projectId and /projects/:projectId share one series.
func Metrics(m *metrics.Metrics, basePath string) gin.HandlerFunc {
	basePath = strings.TrimSuffix(basePath, "/")

	return func(c *gin.Context) {
		if metrics.ShouldSkipEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		m.RecordHTTPRequest(
			c.Request.Method,
			routeLabel(c.FullPath(), basePath),
			c.Writer.Status(),
			time.Since(start),
		)
	}
}

func routeLabel(pattern, basePath string) string {
	if pattern == "" {
		return UnmatchedRoute
	}
	if basePath == "" || !strings.HasPrefix(pattern, basePath) {
		return pattern
	}
	rest := pattern[len(basePath):]
	switch {
	case rest == "":
		return "/"
	case rest[0] == '/':
		return rest
	default:
		return pattern
	}
}
