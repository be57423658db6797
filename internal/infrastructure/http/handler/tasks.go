package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/filter"
	"github.com/rezkam/fieldsched/internal/infrastructure/http/response"
)

// ListTasks returns the tasks matching the shared filter state. Query parameters
// override single dimensions for this request only and never touch the store.
// all_dates=true drops the date filter.
// GET /v1/tasks?sort=&type=&status=&group=&mode=&anchor=&all_dates=
func (h *ScheduleHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	// The navigator writes the default anchor for a mode set through the filters.
	if _, err := h.nav.View(); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	q := r.URL.Query()
	var allDates bool
	if v := q.Get("all_dates"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.ValidationError(w, "all_dates", "must be a boolean")
			return
		}
		allDates = b
	}

	st, err := overrideState(h.store.State(), q, h.now().In(h.service.Location()))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	if allDates {
		st.DateAnchor = ""
	}

	tasks, status := h.service.TaskList(r.Context(), st)
	if tasks == nil {
		tasks = []domain.Task{}
	}
	response.OK(w, TaskListResponse{Tasks: tasks, Filter: st, Status: status})
}

// GetTask returns one loaded task.
// GET /v1/tasks/{task_id}
func (h *ScheduleHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(chi.URLParam(r, "task_id"))
	task, err := h.service.Task(r.Context(), id)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, task)
}

// overrideState applies the query overrides to st. An explicit anchor must fit
// the mode; an inherited anchor that does not is replaced by the mode's default
// for now.
func overrideState(st filter.State, q url.Values, now time.Time) (filter.State, error) {
	if v := q.Get("sort"); v != "" {
		o, err := filter.ParseSortOrder(v)
		if err != nil {
			return st, err
		}
		st.Sort = o
	}
	if q.Has("type") {
		st.Types = filter.NormalizeSet(splitValues(q["type"]))
	}
	if q.Has("status") {
		st.Statuses = filter.NormalizeSet(splitValues(q["status"]))
	}
	if q.Has("group") {
		st.Groups = filter.NormalizeSet(splitValues(q["group"]))
	}
	if v := q.Get("mode"); v != "" {
		m, err := calendar.ParseMode(v)
		if err != nil {
			return st, err
		}
		st.Mode = m
	}
	if !st.Mode.Valid() {
		return st, nil
	}

	if v := strings.TrimSpace(q.Get("anchor")); v != "" {
		if _, err := calendar.ParseAnchor(st.Mode, v, now.Location()); err != nil {
			return st, err
		}
		st.DateAnchor = v
		return st, nil
	}
	if _, err := calendar.ParseAnchor(st.Mode, st.DateAnchor, now.Location()); err != nil {
		st.DateAnchor = calendar.DefaultAnchor(st.Mode, now)
	}
	return st, nil
}

// splitValues accepts both repeated parameters and comma-separated lists.
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}
