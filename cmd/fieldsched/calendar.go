package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/filterstate"
	"github.com/rezkam/fieldsched/internal/navigator"
)

func runCalendar(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	mode, err := calendar.ParseMode(modeFlag)
	if err != nil {
		return err
	}

	s, err := openScreen(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	sync := filterstate.NewSync(filterstate.NewStore(s.logger), filterstate.WithLogger(s.logger))
	defer sync.Close()
	nav, err := navigator.New(sync,
		navigator.WithLocation(s.cfg.Calendar.Location()),
		navigator.WithClampPolicy(s.cfg.Calendar.Clamp()),
		navigator.WithLogger(s.logger),
	)
	if err != nil {
		return err
	}

	view, err := nav.SetMode(mode)
	if err != nil {
		return err
	}
	if anchorFlag != "" {
		if view, err = nav.GoTo(mode, anchorFlag); err != nil {
			return err
		}
	}
	for i := 0; i < navigateFlag; i++ {
		if view, err = nav.Next(); err != nil {
			return err
		}
	}
	for i := 0; i > navigateFlag; i-- {
		if view, err = nav.Prev(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if mode == calendar.Day {
		grid, status := s.svc.Day(ctx, view.Date)
		if jsonFlag {
			return json.NewEncoder(out).Encode(map[string]any{"view": view, "keys": grid.Keys, "status": status})
		}
		fmt.Fprintf(out, "day %s\n", view.Anchor)
		renderDayGrid(out, grid, s.svc.Label)
		return nil
	}

	cells, status := s.svc.Calendar(ctx, view.Range)
	if jsonFlag {
		return json.NewEncoder(out).Encode(map[string]any{"view": view, "cells": cells, "status": status})
	}
	renderCalendar(out, view, cells, s.cfg.Calendar.CellCapacity, s.svc.Label)
	return nil
}
