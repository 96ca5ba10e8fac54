package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/genehive/genehive-server/internal/observability"
)

// Metrics records request counts and latency per route. Requests that
// match no route share a single "unmatched" label.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
