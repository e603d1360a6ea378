package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"encore-rentals/internal/config"
	"encore-rentals/internal/domain"
	"encore-rentals/internal/logger"
	"encore-rentals/internal/mockbackend"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Optional .env for local secrets
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to read .env: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Encore mock backend...", "log_level", cfg.Log.Level, "address", cfg.GetMockBackendAddress())

	backend := mockbackend.New(mockbackend.Config{
		APIKey:      cfg.Backend.AnonKey,
		ServiceKey:  cfg.Backend.ServiceKey,
		JWTSecret:   cfg.Backend.JWTSecret,
		AutoConfirm: cfg.MockBackend.AutoConfirm,
		TokenTTL:    time.Duration(cfg.MockBackend.TokenTTLMinutes) * time.Minute,
	})

	if cfg.MockBackend.SeedSamples {
		samples := domain.SampleInstruments()
		if err := backend.SeedRecords("instruments", samples); err != nil {
			log.Fatalf("Failed to seed sample instruments: %v", err)
		}
		logger.Info("Seeded sample instruments", "count", len(samples))
	}

	srv := &http.Server{
		Addr:              cfg.GetMockBackendAddress(),
		Handler:           backend.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Mock backend listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Mock backend failed", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down mock backend...")
	if err := srv.Close(); err != nil {
		logger.Error("Failed to close mock backend", "error", err)
	}
}
