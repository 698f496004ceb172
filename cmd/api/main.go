package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/adapter/http/router"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/adapter/model"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/infrastructure/config"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Load the model before listening; a failed load never serves
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*cfg.Model.Timeout)
	classifier, err := model.Load(loadCtx, &cfg.Model, log)
	cancelLoad()
	if err != nil {
		log.Error("Failed to load model",
			zap.String("model", cfg.Model.Name),
			zap.String("backend", cfg.Model.Backend),
			zap.Error(err),
		)
		return fmt.Errorf("failed to load model: %w", err)
	}

	// Setup router
	r := router.Setup(classifier, cfg, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("address", addr), zap.String("model", classifier.Name()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal or listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}
