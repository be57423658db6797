package main

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/filter"
	"github.com/rezkam/fieldsched/internal/filterstate"
)

func runTasks(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	s, err := openScreen(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	tf := taskFilter{
		Mode:     modeFlag,
		Anchor:   anchorFlag,
		AllDates: allDatesFlag,
		Sort:     sortFlag,
		Types:    typeFlags,
		Statuses: statusFlags,
		Groups:   groupFlags,
	}
	now := time.Now().In(s.cfg.Calendar.Location())
	st, err := buildFilterState(filterstate.NewStore(s.logger), tf, now)
	if err != nil {
		return err
	}

	tasks, _ := s.svc.TaskList(ctx, st)
	if jsonFlag {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(tasks)
	}
	renderTasks(cmd.OutOrStdout(), tasks, s.svc.Label)
	return nil
}

// taskFilter holds the filter flags of the tasks command.
type taskFilter struct {
	Mode     string
	Anchor   string
	AllDates bool
	Sort     string
	Types    []string
	Statuses []string
	Groups   []string
}

// buildFilterState turns the command flags into a filter state by dispatching
// them to store, so flag values get the same validation as API updates.
// Without an anchor the mode's default for now is used; AllDates clears it.
func buildFilterState(store *filterstate.Store, tf taskFilter, now time.Time) (filter.State, error) {
	m, err := calendar.ParseMode(tf.Mode)
	if err != nil {
		return filter.State{}, err
	}

	anchor := strings.TrimSpace(tf.Anchor)
	switch {
	case tf.AllDates:
		if anchor != "" {
			return filter.State{}, errors.New("--anchor and --all-dates are mutually exclusive")
		}
	case anchor == "":
		anchor = calendar.DefaultAnchor(m, now)
	default:
		if _, err := calendar.ParseAnchor(m, anchor, now.Location()); err != nil {
			return filter.State{}, err
		}
	}

	if _, _, err := store.Dispatch("cli",
		filterstate.SetMode(m),
		filterstate.SetDate(anchor),
		filterstate.SetSort(filter.SortOrder(tf.Sort)),
		filterstate.SetTypes(tf.Types...),
		filterstate.SetStatuses(tf.Statuses...),
		filterstate.SetGroups(tf.Groups...),
	); err != nil {
		return filter.State{}, err
	}
	return store.State(), nil
}
