package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rezkam/fieldsched/internal/bucket"
	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/navigator"
)

var weekdayHeader = []string{"Pn", "Wt", "Śr", "Cz", "Pt", "So", "Nd"}

// renderCalendar writes a plain-text calendar for view.
func renderCalendar(w io.Writer, view navigator.View, cells bucket.CellMap, capacity int, label func(string) string) {
	fmt.Fprintf(w, "%s %s  (%s .. %s, %d tasks)\n", view.Mode, view.Anchor,
		view.Range.Start.Format(calendar.DayLayout), view.Range.End.Format(calendar.DayLayout), cells.Total())

	switch view.Mode {
	case calendar.Month, calendar.Year:
		for _, g := range view.Layout.Grids {
			renderGrid(w, g, cells)
		}
	default:
		for _, day := range cells.Range.Days() {
			renderDayList(w, day, cells.At(day), capacity, label)
		}
	}
}

func renderGrid(w io.Writer, g calendar.Grid, cells bucket.CellMap) {
	fmt.Fprintf(w, "\n%s %d\n", g.Month, g.Year)
	fmt.Fprintln(w, strings.Join(weekdayHeader, "      "))
	for _, row := range g.Rows {
		var b strings.Builder
		for i, c := range row {
			if i > 0 {
				b.WriteString(" ")
			}
			switch n := cells.Count(c.Date); {
			case c.Blank:
				b.WriteString("       ")
			case n > 0:
				fmt.Fprintf(&b, "%2d (%2d)", c.Date.Day(), n)
			default:
				fmt.Fprintf(&b, "%2d     ", c.Date.Day())
			}
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func renderDayList(w io.Writer, day time.Time, list []domain.Task, capacity int, label func(string) string) {
	fmt.Fprintf(w, "\n%s %s\n", weekdayHeader[calendar.MondayOffset(day.Weekday())], day.Format(calendar.DayLayout))
	visible, more := bucket.Visible(list, capacity)
	for _, t := range visible {
		fmt.Fprintf(w, "  %s\n", taskLine(t, label))
	}
	if more > 0 {
		fmt.Fprintf(w, "  +%d more\n", more)
	}
}

// renderDayGrid writes the hour by group layout of one day.
func renderDayGrid(w io.Writer, grid bucket.DayGrid, label func(string) string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"hour"}
	for _, key := range grid.Keys {
		header = append(header, label(key))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for hour := 0; hour < 24; hour++ {
		row := []string{fmt.Sprintf("%02d:00", hour)}
		empty := true
		for _, key := range grid.Keys {
			tasks := grid.At(hour, key)
			ids := make([]string, 0, len(tasks))
			for _, t := range tasks {
				ids = append(ids, fmt.Sprintf("#%s %s", t.ID, t.Type))
			}
			if len(ids) > 0 {
				empty = false
			}
			row = append(row, strings.Join(ids, ", "))
		}
		if !empty {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
	}
	tw.Flush()
}

// renderTasks writes one line per task.
func renderTasks(w io.Writer, tasks []domain.Task, label func(string) string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTART\tTYPE\tSTATUS\tASSIGNEE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Start, t.Type, t.Status, label(t.GroupKey()))
	}
	tw.Flush()
}

func taskLine(t domain.Task, label func(string) string) string {
	return fmt.Sprintf("#%s %s %s [%s] %s", t.ID, t.Start, t.Type, t.Status, label(t.GroupKey()))
}
