package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/domain"
)

// SortOrder orders the task list by start instant.
type SortOrder string

const (
	// SortNearest sorts descending: the latest start comes first.
	SortNearest SortOrder = "nearest"
	// SortFarthest sorts ascending: the earliest start comes first.
	SortFarthest SortOrder = "farthest"
)

// DefaultMode is the mode a fresh filter state starts in.
const DefaultMode = calendar.Month

// ParseSortOrder parses "nearest" or "farthest".
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortNearest, SortFarthest:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSortOrder, s)
	}
}

// State is the filter selection of the task list.
//
// Set-valued fields are never nil. An empty set puts no constraint on its dimension.
type State struct {
	Mode       calendar.Mode `json:"mode"`
	DateAnchor string        `json:"date_anchor"`
	Sort       SortOrder     `json:"sort"`
	Types      []string      `json:"types"`
	Statuses   []string      `json:"statuses"`
	Groups     []string      `json:"groups"`
}

// NewState returns the defaults a screen mounts with.
func NewState() State {
	return State{
		Mode:     DefaultMode,
		Sort:     SortNearest,
		Types:    []string{},
		Statuses: []string{},
		Groups:   []string{},
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	c := s
	c.Types = cloneSet(s.Types)
	c.Statuses = cloneSet(s.Statuses)
	c.Groups = cloneSet(s.Groups)
	return c
}

// Normalized returns a copy with sorted, de-duplicated, non-nil sets and a valid sort order.
func (s State) Normalized() State {
	c := s
	c.Types = NormalizeSet(s.Types)
	c.Statuses = NormalizeSet(s.Statuses)
	c.Groups = NormalizeSet(s.Groups)
	if c.Sort != SortFarthest {
		c.Sort = SortNearest
	}
	return c
}

// Equal compares two states with set fields compared order-insensitively.
func (s State) Equal(o State) bool {
	return s.Mode == o.Mode &&
		s.DateAnchor == o.DateAnchor &&
		s.Sort == o.Sort &&
		SetEqual(s.Types, o.Types) &&
		SetEqual(s.Statuses, o.Statuses) &&
		SetEqual(s.Groups, o.Groups)
}

// SetEqual reports whether a and b hold the same values, ignoring order and duplicates.
func SetEqual(a, b []string) bool {
	return slices.Equal(NormalizeSet(a), NormalizeSet(b))
}

// NormalizeSet returns a sorted copy of values without duplicates or blanks.
func NormalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func cloneSet(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}
