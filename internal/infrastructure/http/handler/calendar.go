package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/infrastructure/http/response"
	"github.com/rezkam/fieldsched/internal/navigator"
)

// GetCalendar returns the current calendar view with its bucketed tasks.
// GET /v1/calendar?mode=&anchor=
func (h *ScheduleHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	modeParam, anchor := q.Get("mode"), q.Get("anchor")

	var (
		view navigator.View
		err  error
	)
	switch {
	case modeParam == "" && anchor == "":
		view, err = h.nav.View()
	default:
		mode := h.nav.Mode()
		if modeParam != "" {
			if mode, err = calendar.ParseMode(modeParam); err != nil {
				response.FromDomainError(w, r, err)
				return
			}
		}
		if anchor == "" {
			view, err = h.nav.SetMode(mode)
		} else {
			view, err = h.nav.GoTo(mode, anchor)
		}
	}
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	h.writeCalendar(w, r, view)
}

// SetMode switches the calendar mode.
// POST /v1/calendar/mode
func (h *ScheduleHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req SetModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}
	mode, err := calendar.ParseMode(req.Mode)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	view, err := h.nav.SetMode(mode)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "calendar mode set via HTTP", "mode", view.Mode, "anchor", view.Anchor)
	h.writeCalendar(w, r, view)
}

// Next pages one period forward.
// POST /v1/calendar/next
func (h *ScheduleHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.nav.Next)
}

// Prev pages one period back.
// POST /v1/calendar/prev
func (h *ScheduleHandler) Prev(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.nav.Prev)
}

// Today jumps back to the current date.
// POST /v1/calendar/today
func (h *ScheduleHandler) Today(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.nav.Today)
}

func (h *ScheduleHandler) move(w http.ResponseWriter, r *http.Request, step func() (navigator.View, error)) {
	view, err := step()
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	h.writeCalendar(w, r, view)
}

func (h *ScheduleHandler) writeCalendar(w http.ResponseWriter, r *http.Request, view navigator.View) {
	cells, status := h.service.Calendar(r.Context(), view.Range)
	response.OK(w, CalendarResponse{
		View:   view,
		Days:   mapCells(view, cells, h.capacity),
		Total:  cells.Total(),
		Status: status,
	})
}

// GetDay returns the hour by group grid of one day. Without a date it uses the
// navigator's current date.
// GET /v1/calendar/day?date=
func (h *ScheduleHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	var date time.Time
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := calendar.ParseAnchor(calendar.Day, s, h.service.Location())
		if err != nil {
			response.FromDomainError(w, r, err)
			return
		}
		date = d
	} else {
		view, err := h.nav.View()
		if err != nil {
			response.FromDomainError(w, r, err)
			return
		}
		date = view.Date
	}

	grid, status := h.service.Day(r.Context(), date)
	resp := mapDayGrid(grid, h.service.Label)
	resp.Status = status
	response.OK(w, resp)
}
