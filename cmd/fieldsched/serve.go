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
	"time"

	"github.com/spf13/cobra"

	"github.com/rezkam/fieldsched/internal/application/schedule"
	"github.com/rezkam/fieldsched/internal/config"
	"github.com/rezkam/fieldsched/internal/filterstate"
	httpserver "github.com/rezkam/fieldsched/internal/infrastructure/http"
	"github.com/rezkam/fieldsched/internal/infrastructure/http/handler"
	"github.com/rezkam/fieldsched/internal/infrastructure/observability"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}

	// Root context cancels on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	providers, err := observability.Init(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
		LogLevel:    cfg.Observability.LogLevel,
		LogFormat:   cfg.Observability.LogFormat,
	}, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}
	logger := providers.Logger
	slog.SetDefault(logger)

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		shutdownTelemetry(providers)
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Type, err)
	}
	logger.InfoContext(ctx, "storage initialized", "type", cfg.Storage.Type, "target", storageTarget(cfg.Storage))

	svc, err := schedule.NewService(store, store, store, schedule.Config{Location: cfg.Calendar.Location()}, logger)
	if err != nil {
		store.Close()
		shutdownTelemetry(providers)
		return fmt.Errorf("failed to create schedule service: %w", err)
	}
	if err := svc.Refresh(ctx); err != nil {
		// Serve anyway; views carry the error flag until a refresh succeeds.
		logger.WarnContext(ctx, "initial snapshot refresh failed", "error", err)
	}

	refresher, err := schedule.NewRefresher(svc, cfg.Refresh.Schedule, cfg.Refresh.Timeout, logger)
	if err != nil {
		store.Close()
		shutdownTelemetry(providers)
		return err
	}

	h, err := handler.NewScheduleHandler(handler.Config{
		Service:      svc,
		Store:        filterstate.NewStore(logger),
		CellCapacity: cfg.Calendar.CellCapacity,
		ExtraTypes:   cfg.Calendar.ExtraTypes,
		Clamp:        cfg.Calendar.Clamp(),
		Logger:       logger,
	})
	if err != nil {
		store.Close()
		shutdownTelemetry(providers)
		return fmt.Errorf("failed to create handler: %w", err)
	}

	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout+5*time.Second)
	defer cleanupCancel()
	cleanup := newCleanup(cleanupCtx, refresher, h, store, providers)
	defer cleanup()

	if err := refresher.Start(ctx); err != nil {
		return err
	}

	server := httpserver.NewAPIServer(h.Routes(), httpserver.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		Health:            svc.Status,
		Logger:            logger,
	})

	errResult := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.InfoContext(ctx, "shutting down")

		// Fresh context: the root one is already cancelled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.ErrorContext(shutdownCtx, "HTTP server shutdown failed", "error", err)
		}
		return nil
	case err := <-errResult:
		return err
	}
}

func shutdownTelemetry(p *observability.Providers) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown telemetry", "error", err)
	}
}
