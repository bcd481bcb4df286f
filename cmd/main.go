package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"mergington/internal/api"
	"mergington/internal/config"
	"mergington/internal/repo"
	"mergington/internal/service"
)

func main() {
	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	log.Info().Str("env", cfg.Env).Msg("starting mergington activities API")

	repository, err := repo.NewRepository(cfg.StoragePath, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize repository")
	}
	defer repository.Close()
	log.Info().Str("path", cfg.StoragePath).Msg("storage initialized")

	if err := repository.Seed(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed activities")
	}

	serviceInstance := service.NewService(repository, &log)
	app := api.NewRouters(&api.Routers{Service: serviceInstance, StaticDir: cfg.StaticDir})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      app,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Msgf("Error shutting down server: %v", err)
	}

	log.Info().Msg("Shutdown complete")
}

func setupLogger(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}
	return zerolog.New(os.Stdout).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
}
