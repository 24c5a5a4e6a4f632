package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/monitor"
)

// PrometheusMiddleware records request counts and latency per route template,
// so path parameters do not blow up the label cardinality.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		monitor.ObserveHTTPRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
