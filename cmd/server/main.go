// Package main provides the API server entry point for the address guard service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/address-guard/internal/api"
	"github.com/address-guard/internal/config"
	"github.com/address-guard/internal/logging"
	"github.com/address-guard/internal/service"
)

func main() {
	fmt.Println("Address Guard API Server")
	log.Println("Server starting...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.WithField("backend", string(cfg.Store.Backend)).Info("Opening trust store...")
	engine, err := service.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open trust store")
	}
	defer func() {
		if err := engine.Store().Close(); err != nil {
			logger.WithError(err).Warn("Failed to close trust store")
		}
	}()

	if err := engine.Blocked(); err != nil {
		// keep serving so /health can report the block
		logger.WithError(err).Error("Hashing unavailable, every analysis will be refused")
	}

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	serverConfig.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
	serverConfig.Burst = cfg.RateLimit.Burst
	serverConfig.ClientIdleTTL = cfg.RateLimit.CleanupInterval

	server := api.NewServer(serverConfig, engine, logger)

	// Start server in a goroutine
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
