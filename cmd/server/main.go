// Package main is the entry point for the marketline calendar engine. It
// loads the dataset snapshot, consolidates per-symbol trading schedules into
// a canonical timeline, annotates price history against it and serves the
// results over HTTP, refreshing on a cron schedule.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"marketline/internal/config"
	"marketline/internal/database"
	"marketline/internal/modules/calendar"
	"marketline/internal/modules/history"
	"marketline/internal/modules/marketdata"
	"marketline/internal/modules/snapshots"
	"marketline/internal/scheduler"
	"marketline/internal/server"
	"marketline/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting marketline")

	params, err := config.LoadParameters(cfg.ParametersPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load parameters")
	}

	historyDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "history.db"),
		Profile: database.ProfileStandard,
		Name:    "history",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer historyDB.Close()

	repo := history.NewRepository(historyDB.Conn(), log)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history schema")
	}

	provider := calendar.NewFileProvider(log, resolvePath(cfg.DataDir, params.CalendarFile))
	writer := snapshots.NewWriter(log, filepath.Join(cfg.DataDir, "snapshots"))

	gateway := marketdata.NewGateway(
		log,
		params,
		resolvePath(cfg.DataDir, params.MarketdataFile),
		provider,
		repo,
		writer,
		cfg.DevMode,
	)

	// First enrichment cycle runs at startup so the API has a snapshot to
	// serve. A missing calendar is fatal; see the error handling contract.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Minute)
	if err := gateway.Refresh(startupCtx); err != nil {
		cancelStartup()
		log.Fatal().Err(err).Msg("Initial enrichment cycle failed")
	}
	cancelStartup()

	sched := scheduler.New(log)
	refreshJob := scheduler.NewRefreshJob(log, gateway, 10*time.Minute)
	if err := sched.AddJob(params.RefreshCron, refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}
	sched.Start()

	srv := server.New(server.Config{
		Log:     log,
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
		Service: gateway,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Marketline stopped")
}

// resolvePath anchors relative parameter paths at the data directory.
func resolvePath(dataDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}
