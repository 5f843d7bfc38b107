package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/cinefusion/cinefusion/internal/config"
	"github.com/cinefusion/cinefusion/internal/ingest"
	"github.com/cinefusion/cinefusion/internal/server"
	"github.com/cinefusion/cinefusion/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logging
	setupLogging(cfg.Log.Level)

	logrus.Info("Starting CineFusion backend server...")

	// Initialize dataset loader
	loader, err := ingest.New(cfg.Dataset, logrus.StandardLogger())
	if err != nil {
		logrus.Fatalf("Failed to initialize dataset loader: %v", err)
	}

	// Initialize services
	serviceContainer, err := services.NewContainer(cfg, loader)
	if err != nil {
		logrus.Fatalf("Failed to initialize services: %v", err)
	}

	// Load the catalog and build the search indexes
	if err := serviceContainer.LoadDataset(); err != nil {
		logrus.Fatalf("Failed to load dataset: %v", err)
	}

	// Initialize HTTP server
	httpServer := server.NewHTTPServer(cfg, serviceContainer)

	// Start services
	logrus.Info("Starting background services...")
	serviceContainer.Start()

	// Start HTTP server
	go func() {
		if err := httpServer.Start(); err != nil {
			logrus.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down CineFusion backend server...")

	// Graceful shutdown
	if err := httpServer.Shutdown(); err != nil {
		logrus.Errorf("Error during HTTP server shutdown: %v", err)
	}

	serviceContainer.Stop()
	logrus.Info("CineFusion backend server stopped")
}

func setupLogging(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	switch level {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.Info("Logging initialized")
}
