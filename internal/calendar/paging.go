package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/rezkam/fieldsched/internal/domain"
)

// ClampPolicy decides where month and year paging lands when the source
// day-of-month does not exist in the destination month.
type ClampPolicy int

const (
	// ClampLastDay lands on the last valid day (Mar 31 -> Apr 30).
	ClampLastDay ClampPolicy = iota
	// ClampFirstDay lands on day 1 of the destination month (Mar 31 -> Apr 1).
	ClampFirstDay
)

// ParseClampPolicy parses "last" or "first". Empty means ClampLastDay.
func ParseClampPolicy(s string) (ClampPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last":
		return ClampLastDay, nil
	case "first":
		return ClampFirstDay, nil
	default:
		return 0, fmt.Errorf("unknown clamp policy %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseClampPolicy.
func (p *ClampPolicy) UnmarshalText(b []byte) error {
	v, err := ParseClampPolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p ClampPolicy) String() string {
	if p == ClampFirstDay {
		return "first"
	}
	return "last"
}

// AddMonths moves t by n calendar months without overflowing into the month after
// the destination. Time of day and location are preserved.
func AddMonths(t time.Time, n int, clamp ClampPolicy) time.Time {
	y, m, d := t.Date()

	idx := int(m) - 1 + n
	years := idx / 12
	idx %= 12
	if idx < 0 {
		idx += 12
		years--
	}
	ty, tm := y+years, time.Month(idx+1)

	if last := DaysIn(ty, tm); d > last {
		if clamp == ClampFirstDay {
			d = 1
		} else {
			d = last
		}
	}
	return time.Date(ty, tm, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// Page advances anchor by step periods of mode. Step is usually +1 or -1.
func Page(mode Mode, anchor time.Time, step int, clamp ClampPolicy) (time.Time, error) {
	switch mode {
	case Day:
		return anchor.AddDate(0, 0, step), nil
	case Week:
		return anchor.AddDate(0, 0, 7*step), nil
	case Month:
		return AddMonths(anchor, step, clamp), nil
	case Year:
		return AddMonths(anchor, 12*step, clamp), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}
}
