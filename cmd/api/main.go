// Command api is the booking notifier server. It consumes record changes
// from Postgres LISTEN/NOTIFY (and NATS when configured), runs the hourly
// reminder scan and serves health, metrics and manual trigger endpoints.
//
// Usage:
//
//	booking-notifier
//	API_PORT=8080 booking-notifier

// @title Booking Notifier API
// @version 1.0.0
// @description Decides and delivers push and in-app notifications for shop orders and workshop bookings.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @contact.name Booking Notifier
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/booking-notifier/internal/api"
	"github.com/albapepper/booking-notifier/internal/api/handler"
	"github.com/albapepper/booking-notifier/internal/app"
	"github.com/albapepper/booking-notifier/internal/config"
	"github.com/albapepper/booking-notifier/internal/db"
	"github.com/albapepper/booking-notifier/internal/listener"
	"github.com/albapepper/booking-notifier/internal/maintenance"

	_ "github.com/albapepper/booking-notifier/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.IsProduction() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).
			With("service", "booking-notifier")
	} else if cfg.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Apply schema (idempotent)
	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply schema", "error", err)
		os.Exit(1)
	}

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	services, err := app.Build(ctx, cfg, db.NewStore(pool), app.Options{}, logger)
	if err != nil {
		logger.Error("Failed to build services", "error", err)
		os.Exit(1)
	}
	defer services.Close()

	// Start LISTEN/NOTIFY consumer for record changes
	go listener.Start(ctx, cfg.DatabaseURL, cfg.ListenChannel, services.Router, logger)

	// Optional NATS change feed
	if cfg.NATSURL != "" {
		go func() {
			if err := listener.StartNATS(ctx, cfg.NATSURL, cfg.NATSSubject, services.Router, logger); err != nil {
				logger.Error("NATS consumer stopped", "error", err)
			}
		}()
	} else {
		logger.Info("NATS consumer disabled (no NATS_URL)")
	}

	// Start maintenance tickers (reminder scan, notification cleanup)
	go maintenance.Start(ctx, services.Scanner, services.Store, maintenance.Config{
		ReminderInterval: cfg.ReminderInterval,
		CleanupInterval:  cfg.CleanupInterval,
		RetentionDays:    cfg.NotificationRetentionDays,
		RunOnStart:       true,
	}, logger)

	// Create router
	h := handler.New(pool, services.Router, services.Scanner, logger)
	router := api.NewRouter(h, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Booking Notifier",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
