package schedule

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/rezkam/fieldsched/internal/application/schedule"

type instruments struct {
	filterRuns      metric.Int64Counter
	visibleTasks    metric.Int64Histogram
	skippedTasks    metric.Int64Counter
	refreshFailures metric.Int64Counter
	tracer          trace.Tracer
}

// newInstruments registers the service instruments on the global providers,
// which are no-ops until observability is initialised.
func newInstruments() (*instruments, error) {
	meter := otel.Meter(instrumentationName)

	filterRuns, err := meter.Int64Counter("fieldsched.filter.runs",
		metric.WithDescription("Task list filter pipeline runs"))
	if err != nil {
		return nil, fmt.Errorf("failed to create filter runs counter: %w", err)
	}
	visible, err := meter.Int64Histogram("fieldsched.tasks.visible",
		metric.WithDescription("Tasks left after filtering"))
	if err != nil {
		return nil, fmt.Errorf("failed to create visible tasks histogram: %w", err)
	}
	skipped, err := meter.Int64Counter("fieldsched.tasks.skipped",
		metric.WithDescription("Tasks left out of the calendar because their start could not be parsed"))
	if err != nil {
		return nil, fmt.Errorf("failed to create skipped tasks counter: %w", err)
	}
	failures, err := meter.Int64Counter("fieldsched.refresh.failures",
		metric.WithDescription("Failed snapshot refreshes"))
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh failures counter: %w", err)
	}

	return &instruments{
		filterRuns:      filterRuns,
		visibleTasks:    visible,
		skippedTasks:    skipped,
		refreshFailures: failures,
		tracer:          otel.Tracer(instrumentationName),
	}, nil
}
