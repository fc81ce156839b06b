// Package main provides the entry point for the worker service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/thebtf/lookbook/internal/config"
	gormstore "github.com/thebtf/lookbook/internal/db/gorm"
	"github.com/thebtf/lookbook/internal/db/sqlite"
	"github.com/thebtf/lookbook/internal/history"
	"github.com/thebtf/lookbook/internal/worker"
)

var Version = "dev"

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().
		Str("version", Version).
		Msg("Starting lookbook worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open history store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("History store close error")
		}
	}()

	svc := worker.NewService(Version, cfg, store)

	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("Service failed")
		}
	case <-quit:
		log.Info().Msg("Received shutdown signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := svc.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}

	log.Info().Msg("Worker shutdown complete")
}

// openStore selects the history backend from configuration.
func openStore(cfg *config.Config) (history.Store, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		if err := config.EnsureDataDir(); err != nil {
			return nil, err
		}
		return sqlite.NewStore(sqlite.StoreConfig{
			Path:     cfg.SQLitePath,
			MaxConns: cfg.MaxConns,
		})
	case "postgres":
		return gormstore.NewStore(gormstore.Config{
			DSN:      cfg.PostgresDSN,
			MaxConns: cfg.MaxConns,
			LogLevel: logger.Silent,
		})
	default:
		return history.NewMemoryStore(), nil
	}
}
