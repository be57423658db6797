// Package bucket groups tasks into calendar cells for rendering.
//
// A CellMap is always rebuilt from scratch; nothing here mutates its input.
package bucket

import (
	"log/slog"
	"time"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/domain"
)

// DefaultCapacity is how many tasks a cell shows before a "+N more" affordance.
const DefaultCapacity = 2

// CellMap holds the tasks of a range keyed by day ("2006-01-02").
// Each list keeps the relative order of the input.
type CellMap struct {
	Range calendar.Range           `json:"range"`
	Days  map[string][]domain.Task `json:"days"`

	// Skipped lists tasks left out because their start could not be parsed.
	Skipped []domain.ID `json:"skipped,omitempty"`
}

// At returns the tasks of day.
func (m CellMap) At(day time.Time) []domain.Task {
	return m.Days[day.Format(calendar.DayLayout)]
}

// Count returns the number of tasks on day.
func (m CellMap) Count(day time.Time) int {
	return len(m.At(day))
}

// Total returns the number of bucketed tasks.
func (m CellMap) Total() int {
	n := 0
	for _, list := range m.Days {
		n += len(list)
	}
	return n
}

// SlotKey addresses one hour of one group column in the day view.
type SlotKey struct {
	Hour  int
	Group string
}

// DayGrid is the hour-by-group layout of a single day.
type DayGrid struct {
	Date   time.Time
	Keys   []string
	Colors map[string]string
	Slots  map[SlotKey][]domain.Task

	Skipped []domain.ID
}

// At returns the tasks starting at hour for group.
func (g DayGrid) At(hour int, group string) []domain.Task {
	return g.Slots[SlotKey{Hour: hour, Group: group}]
}

// Bucketer buckets tasks in a fixed location.
type Bucketer struct {
	loc    *time.Location
	logger *slog.Logger
}

// New creates a Bucketer. Nil arguments fall back to time.Local and slog.Default().
func New(loc *time.Location, logger *slog.Logger) *Bucketer {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bucketer{loc: loc, logger: logger}
}

// Bucket keeps the tasks starting within rng and groups them by day.
func (b *Bucketer) Bucket(tasks []domain.Task, rng calendar.Range) CellMap {
	cm := CellMap{Range: rng, Days: make(map[string][]domain.Task)}

	for _, t := range tasks {
		start, ok := b.start(t)
		if !ok {
			cm.Skipped = append(cm.Skipped, t.ID)
			continue
		}
		if !rng.Contains(start) {
			continue
		}
		key := start.Format(calendar.DayLayout)
		cm.Days[key] = append(cm.Days[key], t)
	}
	return cm
}

// Day lays out the tasks of a single day by start hour and group.
// Every known team gets a column even without tasks.
func (b *Bucketer) Day(tasks []domain.Task, day time.Time, teams []domain.Team) DayGrid {
	y, m, d := day.Date()
	rng, _ := calendar.DeriveRange(calendar.Day, time.Date(y, m, d, 0, 0, 0, 0, b.loc))

	grid := DayGrid{
		Date:  rng.Start,
		Slots: make(map[SlotKey][]domain.Task),
	}

	var inDay []domain.Task
	for _, t := range tasks {
		start, ok := b.start(t)
		if !ok {
			grid.Skipped = append(grid.Skipped, t.ID)
			continue
		}
		if !rng.Contains(start) {
			continue
		}
		inDay = append(inDay, t)
		key := SlotKey{Hour: start.Hour(), Group: t.GroupKey()}
		grid.Slots[key] = append(grid.Slots[key], t)
	}

	grid.Keys = GroupKeys(inDay, teams)
	grid.Colors = Colors(grid.Keys)
	return grid
}

func (b *Bucketer) start(t domain.Task) (time.Time, bool) {
	start, err := t.StartTime(b.loc)
	if err != nil {
		b.logger.Warn("skipping task with unparsable start",
			"task_id", t.ID,
			"start", t.Start.String(),
			"error", err)
		return time.Time{}, false
	}
	return start, true
}

// Visible splits a cell's list into the tasks to draw and the overflow count.
func Visible(list []domain.Task, capacity int) ([]domain.Task, int) {
	if capacity < 0 {
		capacity = 0
	}
	if len(list) <= capacity {
		return list, 0
	}
	return list[:capacity], len(list) - capacity
}
