// README: Prometheus request duration middleware.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"logit/internal/metrics"
)

// Metrics labels by route template so ids in paths do not explode
// cardinality. Unmatched routes share one label.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
