// Package handler adapts HTTP requests to the calendar navigator, the shared
// filter store and the schedule service.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/fieldsched/internal/application/schedule"
	"github.com/rezkam/fieldsched/internal/bucket"
	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/filterstate"
	"github.com/rezkam/fieldsched/internal/navigator"
)

// Origin is the dispatch origin of filter changes made through PATCH and DELETE.
const Origin = "http"

// Config holds the dependencies of a ScheduleHandler.
type Config struct {
	Service *schedule.Service
	Store   *filterstate.Store

	// CellCapacity is how many tasks a calendar cell lists before "+N more".
	CellCapacity int
	// ExtraTypes are type tags offered in the type picker even when no task uses them.
	ExtraTypes []string
	Clamp      calendar.ClampPolicy

	// Now overrides time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// ScheduleHandler serves the calendar, task list and filter endpoints.
type ScheduleHandler struct {
	service    *schedule.Service
	store      *filterstate.Store
	sync       *filterstate.Sync
	nav        *navigator.Controller
	capacity   int
	extraTypes []string
	now        func() time.Time
	logger     *slog.Logger
}

// NewScheduleHandler creates a handler with its own navigator bound to the shared store.
func NewScheduleHandler(cfg Config) (*ScheduleHandler, error) {
	if cfg.Service == nil || cfg.Store == nil {
		return nil, errors.New("handler: service and store are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CellCapacity <= 0 {
		cfg.CellCapacity = bucket.DefaultCapacity
	}

	sync := filterstate.NewSync(cfg.Store, filterstate.WithLogger(cfg.Logger))
	nav, err := navigator.New(sync,
		navigator.WithClock(cfg.Now),
		navigator.WithLocation(cfg.Service.Location()),
		navigator.WithClampPolicy(cfg.Clamp),
		navigator.WithLogger(cfg.Logger),
	)
	if err != nil {
		sync.Close()
		return nil, err
	}

	return &ScheduleHandler{
		service:    cfg.Service,
		store:      cfg.Store,
		sync:       sync,
		nav:        nav,
		capacity:   cfg.CellCapacity,
		extraTypes: cfg.ExtraTypes,
		now:        cfg.Now,
		logger:     cfg.Logger,
	}, nil
}

// Routes returns the API router. Paths carry the /v1 prefix; the server mounts it under /api.
func (h *ScheduleHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", h.GetCalendar)
			r.Get("/day", h.GetDay)
			r.Post("/mode", h.SetMode)
			r.Post("/next", h.Next)
			r.Post("/prev", h.Prev)
			r.Post("/today", h.Today)
		})
		r.Get("/tasks", h.ListTasks)
		r.Get("/tasks/{task_id}", h.GetTask)
		r.Route("/filters", func(r chi.Router) {
			r.Get("/", h.GetFilters)
			r.Patch("/", h.UpdateFilters)
			r.Delete("/", h.ResetFilters)
			r.Get("/groups", h.GroupOptions)
			r.Get("/types", h.TypeOptions)
		})
		r.Post("/refresh", h.Refresh)
	})
	return r
}

// Close detaches the handler's navigator from the shared store.
func (h *ScheduleHandler) Close() {
	h.sync.Close()
}
