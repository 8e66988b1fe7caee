package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/naac-sar-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics observes every request under its route template so that
// /criteria3/getResponsesByCriteriaCode/:criteriaCode stays one series
// regardless of the code requested.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
