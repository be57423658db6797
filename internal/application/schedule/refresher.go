package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRefreshSchedule is used when no schedule is configured.
const DefaultRefreshSchedule = "@every 1m"

// Refreshable is anything that can reload its data.
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// Refresher reloads a snapshot on a cron schedule.
type Refresher struct {
	target   Refreshable
	schedule string
	timeout  time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

// NewRefresher validates schedule and returns a stopped refresher.
// Schedules use the standard five-field syntax or descriptors such as "@every 30s".
func NewRefresher(target Refreshable, schedule string, timeout time.Duration, logger *slog.Logger) (*Refresher, error) {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{target: target, schedule: schedule, timeout: timeout, logger: logger}, nil
}

// Start schedules refreshes until ctx is cancelled or Stop is called.
// Overlapping runs are skipped.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	cl := cronLogger{r.logger}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	if _, err := c.AddFunc(r.schedule, func() { r.run(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}
	c.Start()
	r.cron = c
	r.cancel = cancel

	go func() {
		<-runCtx.Done()
		r.Stop()
	}()

	r.logger.InfoContext(ctx, "snapshot refresher started", "schedule", r.schedule)
	return nil
}

func (r *Refresher) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.target.Refresh(ctx); err != nil {
		r.logger.ErrorContext(ctx, "scheduled refresh failed", "error", err)
	}
}

// Stop cancels scheduling and waits up to the refresh timeout for a running refresh.
func (r *Refresher) Stop() {
	r.mu.Lock()
	c, cancel := r.cron, r.cancel
	r.cron, r.cancel = nil, nil
	r.mu.Unlock()

	if c == nil {
		return
	}
	cancel()

	select {
	case <-c.Stop().Done():
	case <-time.After(r.timeout):
		r.logger.Warn("timed out waiting for running refresh")
	}
	r.logger.Info("snapshot refresher stopped")
}

// cronLogger routes cron's logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
