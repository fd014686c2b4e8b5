package api

import (
	"github.com/gilby125/airport-routes/pkg/health"
	"github.com/gilby125/airport-routes/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc *ShortestRouteService, checker *health.HealthChecker) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())

	router.GET("/monitoring/health", Liveness(checker))
	router.GET("/health", Health(checker))
	router.GET("/ready", Readiness(checker))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	airportsGroup := router.Group("/api/airports")
	{
		airportsGroup.GET("/iata/routes/shortest", ShortestRoute(svc, CodeSystemIATA))
		airportsGroup.GET("/icao/routes/shortest", ShortestRoute(svc, CodeSystemICAO))
	}
}
