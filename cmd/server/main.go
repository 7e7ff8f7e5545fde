package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkessler/rewind/internal/catalog"
	"github.com/mkessler/rewind/internal/config"
	"github.com/mkessler/rewind/internal/db"
	"github.com/mkessler/rewind/internal/index"
	"github.com/mkessler/rewind/internal/logger"
	"github.com/mkessler/rewind/internal/player"
	"github.com/mkessler/rewind/internal/playhead"
	"github.com/mkessler/rewind/internal/review"
	"github.com/mkessler/rewind/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", true)
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)
	logger.Log.Info().Msg("Rewind review service starting")

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to access underlying database handle")
	}
	if err := db.RunMigrations(sqlDB, cfg.Database.MigrationsPath); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	repos := db.NewRepositories(database)
	idx := index.NewService(repos)

	scanner := catalog.NewScanner(
		repos,
		cfg.Recordings.LibraryPath,
		cfg.Recordings.SupportedFormats,
		cfg.Recordings.RescanInterval,
	)
	if err := scanner.Start(context.Background()); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to start recording library scanner")
	}
	defer scanner.Stop()

	ph := playhead.NewSession()
	machine := player.NewMachine(ph, idx, player.NewClockElement(), cfg.Player.ProgressPollInterval)
	machine.Start()

	session := review.NewSession(cfg.Timeline, ph, idx, machine)
	defer session.Close()

	srv := server.New(cfg, database, repos, idx, session)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info().Msg("Shutdown signal received")
	case err := <-errChan:
		if err != nil {
			logger.Log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logger.Log.Info().Msg("Rewind review service stopped")
}
