// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

// Command server runs the Hubtally ingestion service: it accepts button
// events from classroom hubs, resolves them to a session and student, and
// applies them to the configured aggregation engine over BadgerDB.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hubtally/hubtally/internal/api"
	"github.com/hubtally/hubtally/internal/config"
	"github.com/hubtally/hubtally/internal/logging"
	"github.com/hubtally/hubtally/internal/pipeline"
	"github.com/hubtally/hubtally/internal/resolve"
	"github.com/hubtally/hubtally/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Addr()).
		Str("mode", string(cfg.Pipeline.Mode)).
		Bool("in_memory", cfg.Store.InMemory).
		Msg("Starting hubtally server")

	st, err := store.Open(store.Config{
		Path:     cfg.Store.Path,
		InMemory: cfg.Store.InMemory,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close store")
		}
	}()

	if cfg.Pipeline.SeedDemoData {
		if err := st.SeedDemoData(context.Background()); err != nil {
			return err
		}
		logging.Info().Msg("Demo fixtures seeded")
	}

	engine, err := pipeline.New(cfg.Pipeline.Mode, st)
	if err != nil {
		return err
	}

	handler := api.NewHandler(cfg, st, resolve.New(st), engine)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.NewRouter(),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	logging.Info().Msg("Server stopped")
	return nil
}
