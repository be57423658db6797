// Package schedule is the screen layer: it fetches tasks, teams and employees
// from their sources and serves the calendar, day and task-list views over the
// last good snapshot.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/rezkam/fieldsched/internal/bucket"
	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/filter"
)

// Config holds configuration for the Service.
type Config struct {
	// Location is the calendar time zone. Defaults to time.Local.
	Location *time.Location
}

// Snapshot is one consistent fetch of all three collections.
type Snapshot struct {
	Tasks     []domain.Task
	Teams     []domain.Team
	Employees *domain.EmployeeList
	FetchedAt time.Time
	// Err is the error of the latest refresh. The collections then still hold
	// the previous good snapshot.
	Err error
}

// Status is the loading and error flag attached to every view.
type Status struct {
	FetchedAt time.Time `json:"fetched_at"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
}

// Service serves views over the latest snapshot.
type Service struct {
	tasks     TaskSource
	teams     TeamSource
	employees EmployeeSource

	loc      *time.Location
	pipeline *filter.Pipeline
	bucketer *bucket.Bucketer
	inst     *instruments
	logger   *slog.Logger
	now      func() time.Time

	mu   sync.RWMutex
	snap Snapshot
}

// NewService creates a service with an empty snapshot. Call Refresh to load data.
func NewService(tasks TaskSource, teams TeamSource, employees EmployeeSource, cfg Config, logger *slog.Logger) (*Service, error) {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	inst, err := newInstruments()
	if err != nil {
		return nil, err
	}

	return &Service{
		tasks:     tasks,
		teams:     teams,
		employees: employees,
		loc:       cfg.Location,
		pipeline:  filter.New(cfg.Location, logger),
		bucketer:  bucket.New(cfg.Location, logger),
		inst:      inst,
		logger:    logger,
		now:       time.Now,
		snap:      Snapshot{Employees: &domain.EmployeeList{Employees: []domain.Employee{}}},
	}, nil
}

// Location returns the calendar time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Refresh fetches all collections. On failure the previous snapshot is kept and
// its error flag set; the returned error wraps domain.ErrSourceUnavailable.
func (s *Service) Refresh(ctx context.Context) error {
	ctx, span := s.inst.tracer.Start(ctx, "schedule.Refresh")
	defer span.End()

	tasks, teams, employees, err := s.fetch(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		s.inst.refreshFailures.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "refresh failed")
		s.logger.WarnContext(ctx, "snapshot refresh failed, keeping previous data", "error", err)

		s.mu.Lock()
		s.snap.Err = err
		s.mu.Unlock()
		return err
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}
	if teams == nil {
		teams = []domain.Team{}
	}
	// The source owns the list it returned.
	employees = &domain.EmployeeList{Employees: employees.Items()}
	if employees.Employees == nil {
		employees.Employees = []domain.Employee{}
	}

	span.SetAttributes(
		attribute.Int("tasks", len(tasks)),
		attribute.Int("teams", len(teams)),
		attribute.Int("employees", len(employees.Employees)),
	)

	s.mu.Lock()
	s.snap = Snapshot{Tasks: tasks, Teams: teams, Employees: employees, FetchedAt: s.now()}
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "snapshot refreshed", "tasks", len(tasks), "teams", len(teams), "employees", len(employees.Employees))
	return nil
}

func (s *Service) fetch(ctx context.Context) ([]domain.Task, []domain.Team, *domain.EmployeeList, error) {
	tasks, err := s.tasks.FetchTasks(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	teams, err := s.teams.FetchTeams(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch teams: %w", err)
	}
	employees, err := s.employees.FetchEmployees(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	return tasks, teams, employees, nil
}

// Snapshot returns the current snapshot. The slices are shared and must not be modified.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Status reports the loading and error flags of the current snapshot.
func (s *Service) Status() Status {
	return s.status(s.Snapshot())
}

func (s *Service) status(snap Snapshot) Status {
	st := Status{FetchedAt: snap.FetchedAt, Loading: snap.FetchedAt.IsZero()}
	if snap.Err != nil {
		st.Error = snap.Err.Error()
	}
	return st
}

// Calendar buckets the snapshot's tasks into the days of rng.
func (s *Service) Calendar(ctx context.Context, rng calendar.Range) (bucket.CellMap, Status) {
	ctx, span := s.inst.tracer.Start(ctx, "schedule.Calendar")
	defer span.End()

	snap := s.Snapshot()
	cells := s.bucketer.Bucket(snap.Tasks, rng)
	if n := len(cells.Skipped); n > 0 {
		s.inst.skippedTasks.Add(ctx, int64(n), metric.WithAttributes(attribute.String("view", "calendar")))
	}
	span.SetAttributes(attribute.Int("tasks", cells.Total()))
	return cells, s.status(snap)
}

// Day builds the hour by group grid of date.
func (s *Service) Day(ctx context.Context, date time.Time) (bucket.DayGrid, Status) {
	ctx, span := s.inst.tracer.Start(ctx, "schedule.Day")
	defer span.End()

	snap := s.Snapshot()
	grid := s.bucketer.Day(snap.Tasks, date, snap.Teams)
	if n := len(grid.Skipped); n > 0 {
		s.inst.skippedTasks.Add(ctx, int64(n), metric.WithAttributes(attribute.String("view", "day")))
	}
	span.SetAttributes(attribute.Int("groups", len(grid.Keys)))
	return grid, s.status(snap)
}

// TaskList filters and sorts the snapshot's tasks by st.
func (s *Service) TaskList(ctx context.Context, st filter.State) ([]domain.Task, Status) {
	ctx, span := s.inst.tracer.Start(ctx, "schedule.TaskList")
	defer span.End()

	snap := s.Snapshot()
	tasks := s.pipeline.ApplyState(snap.Tasks, st)

	attrs := metric.WithAttributes(attribute.String("mode", st.Mode.String()))
	s.inst.filterRuns.Add(ctx, 1, attrs)
	s.inst.visibleTasks.Record(ctx, int64(len(tasks)), attrs)
	span.SetAttributes(attribute.Int("visible", len(tasks)), attribute.Int("total", len(snap.Tasks)))
	return tasks, s.status(snap)
}

// GroupOptions lists the group filter choices for the selected types.
func (s *Service) GroupOptions(_ context.Context, types []string) []filter.Option {
	snap := s.Snapshot()
	return filter.GroupOptions(types, snap.Teams, snap.Employees.Items())
}

// TypeOptions lists the type tags in use plus extra user-added tags.
func (s *Service) TypeOptions(_ context.Context, extra []string) []string {
	return filter.TypeOptions(s.Snapshot().Tasks, extra)
}

// Task returns the loaded task with id.
func (s *Service) Task(_ context.Context, id domain.ID) (domain.Task, error) {
	for _, t := range s.Snapshot().Tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
}

// Label returns the display label of a group key: the team name, the employee
// name, or the unassigned label. Unknown keys are returned unchanged.
func (s *Service) Label(key string) string {
	if key == domain.Unassigned {
		return filter.UnassignedLabel
	}
	snap := s.Snapshot()
	for _, t := range snap.Teams {
		if t.ID.String() == key {
			return t.Name
		}
	}
	for _, e := range snap.Employees.Items() {
		if e.ID.String() == key {
			return e.FullName()
		}
	}
	return key
}
