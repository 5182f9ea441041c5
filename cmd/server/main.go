package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alcyxob/session-planner/internal/api"
	"alcyxob/session-planner/internal/bootstrap"
	"alcyxob/session-planner/internal/config"
	"alcyxob/session-planner/internal/logging"
)

// @title Session Planner API
// @version 1.0
// @description Search the exercise catalog and export printable training session plans.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting session planner server", zap.String("source", cfg.Source.Driver))

	// --- Services ---
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	services, err := bootstrap.NewServices(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("could not initialize services", zap.Error(err))
	}
	defer services.Close()

	// Warm the cache so the first request does not pay for the fetch. A failure is not fatal:
	// requests answer "no data available" until a refresh succeeds.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := services.Catalog.Exercises(warmCtx); err != nil {
		logger.Warn("initial catalog fetch failed", zap.Error(err))
	}
	warmCancel()

	// --- Gin Engine ---
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(logger.Named("http")))

	if cfg.JWT.Secret == "" {
		logger.Warn("jwt.secret is empty, /api/v1 is not authenticated")
	}
	api.SetupRoutes(router, cfg.JWT.Secret, services.Catalog, services.Plans, logger.Named("api"))

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exiting")
}
