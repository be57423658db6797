package domain

import (
	"fmt"
	"strings"
	"time"
)

// Instant is a point in time as received from the backend.
// It is kept in raw form so a single malformed value never fails a whole fetch;
// consumers call Parse and skip tasks that do not parse.
type Instant string

// instantLayouts are tried in order for values without an explicit offset.
var instantLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// NewInstant formats t as an RFC3339 instant.
func NewInstant(t time.Time) Instant {
	return Instant(t.Format(time.RFC3339Nano))
}

// Parse interprets the instant. Values carrying an offset are converted to loc;
// values without one are read as wall-clock time in loc.
func (i Instant) Parse(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(string(i))
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidInstant)
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidInstant, s)
}

// String returns the raw value.
func (i Instant) String() string {
	return string(i)
}
