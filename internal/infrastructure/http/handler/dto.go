package handler

import (
	"slices"
	"time"

	"github.com/rezkam/fieldsched/internal/application/schedule"
	"github.com/rezkam/fieldsched/internal/bucket"
	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/filter"
	"github.com/rezkam/fieldsched/internal/navigator"
)

// CalendarResponse is the body of the calendar endpoints.
type CalendarResponse struct {
	View   navigator.View  `json:"view"`
	Days   []DayCell       `json:"days"`
	Total  int             `json:"total"`
	Status schedule.Status `json:"status"`
}

// DayCell is one day of the calendar with its visible tasks and overflow count.
type DayCell struct {
	Date  string        `json:"date"`
	Count int           `json:"count"`
	Tasks []domain.Task `json:"tasks"`
	More  int           `json:"more"`
}

// DayResponse is the body of the day view.
type DayResponse struct {
	Date    string          `json:"date"`
	Columns []DayColumn     `json:"columns"`
	Slots   []DaySlot       `json:"slots"`
	Skipped []domain.ID     `json:"skipped,omitempty"`
	Status  schedule.Status `json:"status"`
}

// DayColumn is one group column of the day view.
type DayColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// DaySlot holds the tasks starting in one hour of one column.
type DaySlot struct {
	Hour  int           `json:"hour"`
	Group string        `json:"group"`
	Tasks []domain.Task `json:"tasks"`
}

// TaskListResponse is the body of the task list.
type TaskListResponse struct {
	Tasks  []domain.Task   `json:"tasks"`
	Filter filter.State    `json:"filter"`
	Status schedule.Status `json:"status"`
}

// FilterResponse is the body of the filter endpoints.
type FilterResponse struct {
	Filter  filter.State `json:"filter"`
	Epoch   uint64       `json:"epoch"`
	Changed bool         `json:"changed"`
}

// FilterAction is one named action of a PATCH /filters request.
type FilterAction struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// UpdateFiltersRequest is the body of PATCH /filters.
type UpdateFiltersRequest struct {
	Actions []FilterAction `json:"actions"`
}

// SetModeRequest is the body of POST /calendar/mode.
type SetModeRequest struct {
	Mode string `json:"mode"`
}

func mapCells(view navigator.View, cells bucket.CellMap, capacity int) []DayCell {
	var days []time.Time
	if view.Mode == calendar.Year {
		// Year mode shows counts only, so empty days are left out.
		for _, d := range cells.Range.Days() {
			if cells.Count(d) > 0 {
				days = append(days, d)
			}
		}
	} else {
		days = cells.Range.Days()
	}

	out := make([]DayCell, 0, len(days))
	for _, d := range days {
		list := cells.At(d)
		visible, more := bucket.Visible(list, capacity)
		if visible == nil {
			visible = []domain.Task{}
		}
		out = append(out, DayCell{
			Date:  d.Format(calendar.DayLayout),
			Count: len(list),
			Tasks: visible,
			More:  more,
		})
	}
	return out
}

func mapDayGrid(grid bucket.DayGrid, label func(string) string) DayResponse {
	resp := DayResponse{
		Date:    grid.Date.Format(calendar.DayLayout),
		Columns: make([]DayColumn, 0, len(grid.Keys)),
		Slots:   make([]DaySlot, 0, len(grid.Slots)),
		Skipped: grid.Skipped,
	}
	for _, key := range grid.Keys {
		resp.Columns = append(resp.Columns, DayColumn{Key: key, Label: label(key), Color: grid.Colors[key]})
	}

	column := make(map[string]int, len(grid.Keys))
	for i, key := range grid.Keys {
		column[key] = i
	}
	for slot, tasks := range grid.Slots {
		resp.Slots = append(resp.Slots, DaySlot{Hour: slot.Hour, Group: slot.Group, Tasks: tasks})
	}
	slices.SortFunc(resp.Slots, func(a, b DaySlot) int {
		if a.Hour != b.Hour {
			return a.Hour - b.Hour
		}
		return column[a.Group] - column[b.Group]
	})
	return resp
}
