package calendar

import (
	"fmt"
	"time"

	"github.com/rezkam/fieldsched/internal/domain"
)

// Range is an inclusive time interval. Start is never after End.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Days returns the midnight of every calendar day touched by the range.
func (r Range) Days() []time.Time {
	if r.End.Before(r.Start) {
		return nil
	}
	var days []time.Time
	last := StartOfDay(r.End)
	for d := StartOfDay(r.Start); !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// MondayOffset converts a Sunday=0 weekday into a Monday-first column index.
func MondayOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// WeekStart returns midnight of the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -MondayOffset(t.Weekday()))
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DeriveRange returns the period of the given mode that contains anchor.
func DeriveRange(mode Mode, anchor time.Time) (Range, error) {
	loc := anchor.Location()
	y, m, _ := anchor.Date()

	switch mode {
	case Day:
		return Range{Start: StartOfDay(anchor), End: EndOfDay(anchor)}, nil
	case Week:
		start := WeekStart(anchor)
		return Range{Start: start, End: EndOfDay(start.AddDate(0, 0, 6))}, nil
	case Month:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: EndOfDay(time.Date(y, m, DaysIn(y, m), 0, 0, 0, 0, loc))}, nil
	case Year:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: EndOfDay(time.Date(y, time.December, 31, 0, 0, 0, 0, loc))}, nil
	default:
		return Range{}, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}
}
