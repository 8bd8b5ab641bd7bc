// Package main wires configuration, logging, stores, services and the HTTP
// router, then serves the Script Library API until SIGINT or SIGTERM.
//
// @title        Script Library API
// @version      1.0
// @description  Shared library of code snippets. Reads are public; writes need an admin session.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/unityscripts/script-library/internal/pkg/config"
	"github.com/unityscripts/script-library/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "script-library",
	})
	log := logger.Component("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, logger.Get(), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	go func() {
		log.Info().Str("addr", app.server.Addr).Str("env", cfg.Env).Msg("starting HTTP server")
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
