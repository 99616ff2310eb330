// Package main is the entry point for the card daemon.
//
// It loads the environment configuration, builds the in-memory state hub
// and the card widget, wires the widget to the hub as its data source, and
// serves the HTTP API that hosts use to push entity states and forecasts
// and to read back the rendered card.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"meteocard/internal/api"
	"meteocard/internal/config"
	"meteocard/internal/hub"
	"meteocard/internal/widget"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg)
	logger.Info("card daemon starting",
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
		"card_configured", cfg.CardConfigured(),
	)

	stateHub := hub.New(logger)
	card := widget.New(widget.WithLogger(logger))
	card.SetSource(stateHub)

	// An initial card configuration from the environment is optional; the
	// daemon otherwise starts unconfigured and waits for a PUT over the API.
	if cfg.CardConfigured() {
		if err := card.SetConfig(cfg.CardConfig()); err != nil {
			return fmt.Errorf("applying initial card configuration: %w", err)
		}
	}

	srv := api.NewServer(card, stateHub, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		card.Teardown()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("card daemon stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger from the configured level and format.
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
