package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gilby125/airport-routes/api"
	"github.com/gilby125/airport-routes/bootstrap"
	"github.com/gilby125/airport-routes/config"
	"github.com/gilby125/airport-routes/pkg/buildinfo"
	"github.com/gilby125/airport-routes/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err, "Failed to load configuration")
	}

	logger.Init(logger.Config{
		Level:  cfg.LoggingConfig.Level,
		Format: cfg.LoggingConfig.Format,
	})
	logger.WithFields(map[string]interface{}{
		"version":     buildinfo.Version,
		"commit":      buildinfo.Commit,
		"environment": cfg.Environment,
	}).Info("Configuration loaded successfully")

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load airports, then routes, before accepting requests
	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		logger.Fatal(err, "Failed to initialize route data")
	}
	defer app.Close()

	router := gin.New()
	api.RegisterRoutes(router, app.Service, app.Health)

	srv := &http.Server{
		Addr:              cfg.HTTPBindAddr + ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err, "Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error(err, "Server forced to shutdown")
		return
	}

	logger.Info("Server exited properly")
}
