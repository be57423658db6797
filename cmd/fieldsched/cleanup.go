package main

import (
	"context"
	"io"
	"log/slog"
)

type stopper interface {
	Stop()
}

type shutdowner interface {
	Shutdown(context.Context) error
}

// newCleanup returns the shutdown hook run after the HTTP server stops: stop
// scheduled refreshes, detach the handler from the filter store, close the
// store, then flush telemetry last so the earlier steps are still recorded.
func newCleanup(ctx context.Context, refresher stopper, handler interface{ Close() }, store io.Closer, telemetry shutdowner) func() {
	return func() {
		if refresher != nil {
			refresher.Stop()
		}
		if handler != nil {
			handler.Close()
		}
		if store != nil {
			if err := store.Close(); err != nil {
				slog.ErrorContext(ctx, "failed to close store", "error", err)
			}
		}
		if telemetry != nil {
			if err := telemetry.Shutdown(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to shutdown telemetry", "error", err)
			}
		}
	}
}
