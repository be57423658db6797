package config

import (
	"fmt"
	"time"

	"github.com/rezkam/fieldsched/internal/bucket"
	"github.com/rezkam/fieldsched/internal/calendar"
)

// CalendarConfig holds calendar behaviour settings.
type CalendarConfig struct {
	// TimeZone is an IANA zone name used for zone-less instants and day boundaries.
	TimeZone string `env:"FIELDSCHED_TIMEZONE" default:"Local"`

	// MonthPagingClamp is "last" or "first"; see calendar.ClampPolicy.
	MonthPagingClamp calendar.ClampPolicy `env:"FIELDSCHED_MONTH_PAGING_CLAMP" default:"last"`

	// CellCapacity is how many tasks a calendar cell shows before "+N more".
	CellCapacity int `env:"FIELDSCHED_CELL_CAPACITY" default:"2"`

	// ExtraTypes are user-added type tags offered next to those found on tasks.
	ExtraTypes []string `env:"FIELDSCHED_EXTRA_TYPES"`

	location *time.Location
}

// Validate resolves the time zone.
func (c *CalendarConfig) Validate() error {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid FIELDSCHED_TIMEZONE %q: %w", c.TimeZone, err)
	}
	if c.CellCapacity <= 0 {
		c.CellCapacity = bucket.DefaultCapacity
	}
	c.location = loc
	return nil
}

// Location returns the resolved time zone, time.Local before Validate.
func (c *CalendarConfig) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// Clamp returns the resolved month paging policy.
func (c *CalendarConfig) Clamp() calendar.ClampPolicy {
	return c.MonthPagingClamp
}
