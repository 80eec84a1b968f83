package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ViniDB27/ignite-call/internal/calendar"
	"github.com/ViniDB27/ignite-call/internal/config"
	"github.com/ViniDB27/ignite-call/internal/db"
	"github.com/ViniDB27/ignite-call/internal/logger"
	"github.com/ViniDB27/ignite-call/internal/server"
)

// @title Ignite Call API
// @version 1.0
// @description Scheduling API: providers publish weekly availability, visitors book one-hour slots.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	logger.Init()
	logger.Info("Starting Ignite Call application")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatalf("Failed to load timezone %q: %v", cfg.Timezone, err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var inserter calendar.Inserter = calendar.NopInserter{}
	if cfg.GoogleCredentialsFile != "" {
		googleInserter, err := calendar.NewGoogleInserter(ctx, cfg.GoogleCredentialsFile, cfg.GoogleCalendarID)
		if err != nil {
			logger.Fatalf("Failed to init Google Calendar client: %v", err)
		}
		inserter = googleInserter
		logger.Info("Google Calendar sync enabled", "calendar_id", cfg.GoogleCalendarID)
	} else {
		logger.Info("Google Calendar credentials not set, events will be dropped")
	}

	calendarService := calendar.New(cfg.RedisAddr, inserter)
	defer calendarService.Close()
	go calendarService.Start(ctx)
	logger.Info("Calendar sync worker started")

	srv := server.New(database, cfg, loc, calendarService)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
