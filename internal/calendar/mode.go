// Package calendar derives date ranges and month grids for the calendar views.
//
// All week arithmetic is Monday-first regardless of locale. Functions are pure:
// they only read their arguments and return new values in the anchor's location.
package calendar

import (
	"fmt"
	"strings"

	"github.com/rezkam/fieldsched/internal/domain"
)

// Mode is the calendar granularity.
type Mode string

const (
	Day   Mode = "day"
	Week  Mode = "week"
	Month Mode = "month"
	Year  Mode = "year"
)

// Modes lists every mode in display order.
var Modes = []Mode{Day, Week, Month, Year}

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidMode, s)
	}
	return m, nil
}

// Valid reports whether m is one of the four modes.
func (m Mode) Valid() bool {
	switch m {
	case Day, Week, Month, Year:
		return true
	default:
		return false
	}
}

func (m Mode) String() string {
	return string(m)
}
