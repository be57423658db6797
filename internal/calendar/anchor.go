package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/rezkam/fieldsched/internal/domain"
)

// Anchor layouts as stored in the filter state.
const (
	DayLayout   = time.DateOnly
	MonthLayout = "2006-01"
	YearLayout  = "2006"
)

// FormatAnchor encodes t as the anchor string of mode. Week anchors are the Monday
// of t's week.
func FormatAnchor(mode Mode, t time.Time) string {
	switch mode {
	case Day:
		return t.Format(DayLayout)
	case Week:
		return WeekStart(t).Format(DayLayout)
	case Month:
		return t.Format(MonthLayout)
	case Year:
		return t.Format(YearLayout)
	default:
		return ""
	}
}

// ParseAnchor decodes an anchor string for mode in loc.
// It is lenient: a full date is accepted for every mode and week anchors snap to
// their Monday. Use AnchorMatchesMode for the strict format check.
func ParseAnchor(mode Mode, s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if !mode.Valid() {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}

	if t, err := time.ParseInLocation(DayLayout, s, loc); err == nil {
		if mode == Week {
			return WeekStart(t), nil
		}
		return t, nil
	}
	if mode == Month || mode == Year {
		if t, err := time.ParseInLocation(MonthLayout, s, loc); err == nil {
			return t, nil
		}
	}
	if mode == Year {
		if t, err := time.ParseInLocation(YearLayout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q for mode %s", domain.ErrInvalidAnchor, s, mode)
}

// AnchorMatchesMode reports whether s has exactly the format mode expects:
// a date for day, a Monday for week, a year-month for month and a year for year.
func AnchorMatchesMode(mode Mode, s string) bool {
	switch mode {
	case Day:
		_, err := time.Parse(DayLayout, s)
		return err == nil
	case Week:
		t, err := time.Parse(DayLayout, s)
		return err == nil && t.Weekday() == time.Monday
	case Month:
		_, err := time.Parse(MonthLayout, s)
		return err == nil
	case Year:
		_, err := time.Parse(YearLayout, s)
		return err == nil
	default:
		return false
	}
}

// DefaultAnchor derives the anchor used when none is set: today for day, this
// week's Monday for week, the current year-month for month and the current year
// for year.
func DefaultAnchor(mode Mode, now time.Time) string {
	return FormatAnchor(mode, now)
}
