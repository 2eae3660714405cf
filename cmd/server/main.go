package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SpiritX-2025-CodeChefs/auth-api/internal/api"
	"github.com/SpiritX-2025-CodeChefs/auth-api/internal/core/service"
	"github.com/SpiritX-2025-CodeChefs/auth-api/internal/infrastructure/config"
	mongodb "github.com/SpiritX-2025-CodeChefs/auth-api/internal/infrastructure/db/mongo"
	"github.com/SpiritX-2025-CodeChefs/auth-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	store := mongodb.NewCredentialStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	authService := service.NewAuthService(store)
	e := api.NewRouter(db, authService, cfg.CORSOrigins, log)

	// A listen failure (port in use, bad address) must kill the process;
	// only a clean Shutdown is allowed to stop the server quietly.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	log.Info().Str("port", cfg.Port).Msg("auth api listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	case <-quit:
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	if err := mongodb.Disconnect(client); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	} else {
		log.Info().Msg("disconnected from mongodb")
	}
}
