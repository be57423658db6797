// Package filter narrows and orders the task list.
//
// Dimensions combine with AND; values selected within one dimension combine with OR.
// Apply never modifies its input and returns the same output for the same arguments.
package filter

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/domain"
)

// Pipeline applies a filter State to task collections.
type Pipeline struct {
	loc    *time.Location
	logger *slog.Logger
}

// New creates a Pipeline. Nil arguments fall back to time.Local and slog.Default().
func New(loc *time.Location, logger *slog.Logger) *Pipeline {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{loc: loc, logger: logger}
}

// ApplyState filters with the state's own mode and anchor.
func (p *Pipeline) ApplyState(tasks []domain.Task, st State) []domain.Task {
	return p.Apply(tasks, st, st.Mode, st.DateAnchor)
}

// Apply keeps the tasks matching st under mode and anchor and sorts them by start.
//
// The date dimension applies only to day, week and month modes with a parsable
// anchor. Tasks whose start does not parse are dropped when a date filter is
// active and sorted after all others otherwise.
func (p *Pipeline) Apply(tasks []domain.Task, st State, mode calendar.Mode, anchor string) []domain.Task {
	inDate := p.dateFilter(mode, anchor)
	types := lowerSet(st.Types)
	statuses := lowerSet(st.Statuses)
	groups := makeSet(st.Groups)

	type entry struct {
		task  domain.Task
		start time.Time
		ok    bool
	}
	kept := make([]entry, 0, len(tasks))

	for _, t := range tasks {
		start, err := t.StartTime(p.loc)
		ok := err == nil

		if inDate != nil {
			if !ok {
				p.logger.Warn("excluding task with unparsable start from date filter",
					"task_id", t.ID,
					"start", t.Start.String(),
					"error", err)
				continue
			}
			if !inDate(start) {
				continue
			}
		}
		if len(types) > 0 && !has(types, fold(t.Type)) {
			continue
		}
		if len(statuses) > 0 && !has(statuses, fold(string(t.Status))) {
			continue
		}
		if len(groups) > 0 && !matchesGroup(t, groups) {
			continue
		}
		kept = append(kept, entry{task: t, start: start, ok: ok})
	}

	descending := st.Sort != SortFarthest
	slices.SortStableFunc(kept, func(a, b entry) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case !a.ok && !b.ok:
			return 0
		}
		if descending {
			return b.start.Compare(a.start)
		}
		return a.start.Compare(b.start)
	})

	out := make([]domain.Task, len(kept))
	for i, e := range kept {
		out[i] = e.task
	}
	return out
}

// dateFilter returns the date predicate for mode and anchor, or nil when there is none.
func (p *Pipeline) dateFilter(mode calendar.Mode, anchor string) func(time.Time) bool {
	if anchor == "" || mode == calendar.Year || !mode.Valid() {
		return nil
	}
	at, err := calendar.ParseAnchor(mode, anchor, p.loc)
	if err != nil {
		p.logger.Warn("ignoring unparsable date anchor", "mode", mode, "anchor", anchor, "error", err)
		return nil
	}

	switch mode {
	case calendar.Day:
		return func(t time.Time) bool { return calendar.SameDay(t, at) }
	case calendar.Week:
		week, _ := calendar.DeriveRange(calendar.Week, at)
		return week.Contains
	case calendar.Month:
		return func(t time.Time) bool {
			return t.Year() == at.Year() && t.Month() == at.Month()
		}
	default:
		return nil
	}
}

func matchesGroup(t domain.Task, groups map[string]struct{}) bool {
	if t.Assignee == nil || *t.Assignee == "" {
		return has(groups, domain.Unassigned)
	}
	return has(groups, t.Assignee.String())
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = fold(v); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func makeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func has(set map[string]struct{}, v string) bool {
	_, ok := set[v]
	return ok
}

// fold makes type and status comparison case-insensitive.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
