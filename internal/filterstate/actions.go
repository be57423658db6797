package filterstate

import (
	"fmt"
	"strings"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/filter"
)

// Action names accepted by ParseAction.
const (
	ActionSetDate   = "set-date"
	ActionSetSort   = "set-sort"
	ActionSetType   = "set-type"
	ActionSetStatus = "set-status"
	ActionSetGroup  = "set-group"
	ActionSetMode   = "set-mode"
	ActionResetAll  = "reset-all"
)

// Action is one mutation of the shared filter state.
// Actions are the only way the store's state changes.
type Action interface {
	Name() string
	apply(st *filter.State) error
}

type actionFunc struct {
	name string
	fn   func(st *filter.State) error
}

func (a actionFunc) Name() string                 { return a.name }
func (a actionFunc) apply(st *filter.State) error { return a.fn(st) }

// SetDate sets the date anchor. An empty anchor clears the date filter.
func SetDate(anchor string) Action {
	return actionFunc{ActionSetDate, func(st *filter.State) error {
		st.DateAnchor = strings.TrimSpace(anchor)
		return nil
	}}
}

// SetSort sets the sort order.
func SetSort(order filter.SortOrder) Action {
	return actionFunc{ActionSetSort, func(st *filter.State) error {
		o, err := filter.ParseSortOrder(string(order))
		if err != nil {
			return err
		}
		st.Sort = o
		return nil
	}}
}

// SetTypes replaces the type selection.
func SetTypes(types ...string) Action {
	return actionFunc{ActionSetType, func(st *filter.State) error {
		st.Types = filter.NormalizeSet(types)
		return nil
	}}
}

// SetStatuses replaces the status selection.
func SetStatuses(statuses ...string) Action {
	return actionFunc{ActionSetStatus, func(st *filter.State) error {
		st.Statuses = filter.NormalizeSet(statuses)
		return nil
	}}
}

// SetGroups replaces the group selection.
func SetGroups(groups ...string) Action {
	return actionFunc{ActionSetGroup, func(st *filter.State) error {
		st.Groups = filter.NormalizeSet(groups)
		return nil
	}}
}

// SetMode sets the calendar mode.
func SetMode(mode calendar.Mode) Action {
	return actionFunc{ActionSetMode, func(st *filter.State) error {
		if !mode.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
		}
		st.Mode = mode
		return nil
	}}
}

// ResetAll restores the defaults.
func ResetAll() Action {
	return actionFunc{ActionResetAll, func(st *filter.State) error {
		*st = filter.NewState()
		return nil
	}}
}

// ParseAction builds an action from its name and values.
// Single-valued actions use the first value; a missing value means empty.
func ParseAction(name string, values []string) (Action, error) {
	first := ""
	if len(values) > 0 {
		first = values[0]
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case ActionSetDate:
		return SetDate(first), nil
	case ActionSetSort:
		return SetSort(filter.SortOrder(first)), nil
	case ActionSetType:
		return SetTypes(values...), nil
	case ActionSetStatus:
		return SetStatuses(values...), nil
	case ActionSetGroup:
		return SetGroups(values...), nil
	case ActionSetMode:
		return SetMode(calendar.Mode(strings.ToLower(first))), nil
	case ActionResetAll:
		return ResetAll(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAction, name)
	}
}

// diff returns the actions that turn from into to, dimension by dimension.
func diff(from, to filter.State) []Action {
	var actions []Action
	if from.Mode != to.Mode && to.Mode.Valid() {
		actions = append(actions, SetMode(to.Mode))
	}
	if from.DateAnchor != to.DateAnchor {
		actions = append(actions, SetDate(to.DateAnchor))
	}
	if from.Sort != to.Sort {
		actions = append(actions, SetSort(to.Sort))
	}
	if !filter.SetEqual(from.Types, to.Types) {
		actions = append(actions, SetTypes(to.Types...))
	}
	if !filter.SetEqual(from.Statuses, to.Statuses) {
		actions = append(actions, SetStatuses(to.Statuses...))
	}
	if !filter.SetEqual(from.Groups, to.Groups) {
		actions = append(actions, SetGroups(to.Groups...))
	}
	return actions
}
