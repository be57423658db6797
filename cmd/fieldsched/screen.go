package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rezkam/fieldsched/internal/application/schedule"
	"github.com/rezkam/fieldsched/internal/config"
	"github.com/rezkam/fieldsched/internal/infrastructure/observability"
)

// screen is what a one-shot command works with: a loaded schedule service over
// the configured store.
type screen struct {
	cfg    *config.CLIConfig
	store  schedule.Store
	svc    *schedule.Service
	logger *slog.Logger
}

func openScreen(ctx context.Context, stderr io.Writer) (*screen, error) {
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return nil, err
	}
	logger := observability.NewLogger(stderr, cfg.Observability.LogLevel, "text")

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Type, err)
	}
	svc, err := schedule.NewService(store, store, store, schedule.Config{Location: cfg.Calendar.Location()}, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	if err := svc.Refresh(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return &screen{cfg: cfg, store: store, svc: svc, logger: logger}, nil
}

func (s *screen) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("failed to close store", "error", err)
	}
}
