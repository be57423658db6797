package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rezkam/fieldsched/internal/filter"
	"github.com/rezkam/fieldsched/internal/filterstate"
	"github.com/rezkam/fieldsched/internal/infrastructure/http/response"
)

// GetFilters returns the shared filter state.
// GET /v1/filters
func (h *ScheduleHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	st, epoch := h.store.Snapshot()
	response.OK(w, FilterResponse{Filter: st, Epoch: epoch})
}

// UpdateFilters applies a list of named actions atomically.
// PATCH /v1/filters
func (h *ScheduleHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	var req UpdateFiltersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}
	if len(req.Actions) == 0 {
		response.ValidationError(w, "actions", "at least one action is required")
		return
	}

	actions := make([]filterstate.Action, 0, len(req.Actions))
	names := make([]string, 0, len(req.Actions))
	for _, a := range req.Actions {
		action, err := filterstate.ParseAction(a.Name, a.Values)
		if err != nil {
			response.FromDomainError(w, r, err)
			return
		}
		actions = append(actions, action)
		names = append(names, action.Name())
	}

	h.dispatch(w, r, names, actions...)
}

// ResetFilters restores every filter dimension to its default.
// DELETE /v1/filters
func (h *ScheduleHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, []string{filterstate.ActionResetAll}, filterstate.ResetAll())
}

func (h *ScheduleHandler) dispatch(w http.ResponseWriter, r *http.Request, names []string, actions ...filterstate.Action) {
	change, changed, err := h.store.Dispatch(Origin, actions...)
	if err != nil {
		h.logger.WarnContext(r.Context(), "filter update rejected", "actions", names, "error", err)
		response.FromDomainError(w, r, err)
		return
	}
	if changed {
		h.logger.InfoContext(r.Context(), "filters updated via HTTP", "actions", names, "epoch", change.Epoch)
	}

	st, epoch := h.store.Snapshot()
	response.OK(w, FilterResponse{Filter: st, Epoch: epoch, Changed: changed})
}

// GroupOptions lists the group picker entries. Without type parameters the
// shared type selection is used.
// GET /v1/filters/groups?type=
func (h *ScheduleHandler) GroupOptions(w http.ResponseWriter, r *http.Request) {
	types := h.store.Types()
	if q := r.URL.Query(); q.Has("type") {
		types = filter.NormalizeSet(splitValues(q["type"]))
	}
	response.OK(w, map[string][]filter.Option{
		"options": h.service.GroupOptions(r.Context(), types),
	})
}

// TypeOptions lists the type tags in use plus configured and requested extras.
// GET /v1/filters/types?extra=
func (h *ScheduleHandler) TypeOptions(w http.ResponseWriter, r *http.Request) {
	extra := append([]string{}, h.extraTypes...)
	extra = append(extra, splitValues(r.URL.Query()["extra"])...)
	options := h.service.TypeOptions(r.Context(), extra)
	if options == nil {
		options = []string{}
	}
	response.OK(w, map[string][]string{"options": options})
}

// Refresh reloads the snapshot from the data source.
// POST /v1/refresh
func (h *ScheduleHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "manual refresh failed", "error", err)
		response.FromDomainError(w, r, err)
		return
	}
	snap := h.service.Snapshot()
	response.OK(w, map[string]any{
		"fetched_at": snap.FetchedAt,
		"tasks":      len(snap.Tasks),
		"teams":      len(snap.Teams),
		"employees":  len(snap.Employees.Items()),
	})
}
