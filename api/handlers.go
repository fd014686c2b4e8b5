package api

import (
	"errors"
	"net/http"

	"github.com/gilby125/airport-routes/pkg/health"
	"github.com/gilby125/airport-routes/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ShortestRoute handles GET .../routes/shortest?from=&to= for one code system.
func ShortestRoute(svc *ShortestRouteService, system CodeSystem) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		data, err := svc.Shortest(ctx, system, c.Query("from"), c.Query("to"))
		if err != nil {
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				logger.WithContext(ctx).Error(err, "Unhandled shortest route error")
				apiErr = &Error{Status: http.StatusInternalServerError, Message: msgInternal, Err: err}
			}
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
			return
		}

		logger.WithContext(ctx).Info("Found shortest route", "route", data.AirportCodes, "length", data.RouteLength)
		c.JSON(http.StatusOK, gin.H{"data": data})
	}
}

// Health returns the full health report: 200 when every check is up, 503
// otherwise.
func Health(checker *health.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := checker.CheckHealth(c.Request.Context())
		status := http.StatusOK
		if report.Status != health.StatusUp {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	}
}

// Readiness reports whether airport data and the adjacency list are loaded.
func Readiness(checker *health.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := checker.CheckReadiness(c.Request.Context())
		status := http.StatusOK
		if report.Status != health.StatusUp {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	}
}

// Liveness answers as long as the process is serving requests.
func Liveness(checker *health.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, checker.CheckLiveness(c.Request.Context()))
	}
}
