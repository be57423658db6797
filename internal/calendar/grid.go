package calendar

import (
	"fmt"
	"time"

	"github.com/rezkam/fieldsched/internal/domain"
)

// Columns is the width of every month grid.
const Columns = 7

// Cell is one position of a month grid.
type Cell struct {
	Date  time.Time `json:"date"`
	Blank bool      `json:"blank"`

	// InWeek marks cells of the highlighted week in week mode.
	InWeek bool `json:"in_week,omitempty"`
	// WeekStartEdge and WeekEndEdge mark the first and last highlighted cell of a row.
	WeekStartEdge bool `json:"week_start_edge,omitempty"`
	WeekEndEdge   bool `json:"week_end_edge,omitempty"`
}

// Grid is a month laid out in rows of seven Monday-first columns.
type Grid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Rows  [][]Cell   `json:"rows"`
}

// Cells returns the grid flattened row by row.
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, len(g.Rows)*Columns)
	for _, row := range g.Rows {
		cells = append(cells, row...)
	}
	return cells
}

// DayCount returns the number of non-blank cells.
func (g Grid) DayCount() int {
	n := 0
	for _, row := range g.Rows {
		for _, c := range row {
			if !c.Blank {
				n++
			}
		}
	}
	return n
}

// Layout is everything a calendar view renders for a mode and anchor.
type Layout struct {
	Mode  Mode   `json:"mode"`
	Range Range  `json:"range"`
	Grids []Grid `json:"grids,omitempty"`
}

// MonthGrid builds the grid of anchor's month: leading blanks up to the weekday
// of the 1st, one cell per day, trailing blanks to complete the last row.
func MonthGrid(anchor time.Time) Grid {
	loc := anchor.Location()
	y, m, _ := anchor.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	days := DaysIn(y, m)
	lead := MondayOffset(first.Weekday())

	total := lead + days
	if rem := total % Columns; rem != 0 {
		total += Columns - rem
	}

	cells := make([]Cell, total)
	for i := range cells {
		day := i - lead + 1
		if day < 1 || day > days {
			cells[i] = Cell{Blank: true}
			continue
		}
		cells[i] = Cell{Date: time.Date(y, m, day, 0, 0, 0, 0, loc)}
	}

	rows := make([][]Cell, 0, total/Columns)
	for i := 0; i < total; i += Columns {
		rows = append(rows, cells[i:i+Columns:i+Columns])
	}
	return Grid{Year: y, Month: m, Rows: rows}
}

// WeekGrid builds anchor's month grid with anchor's week highlighted.
func WeekGrid(anchor time.Time) Grid {
	g := MonthGrid(anchor)
	week, _ := DeriveRange(Week, anchor)

	for _, row := range g.Rows {
		first, last := -1, -1
		for i := range row {
			if row[i].Blank || !week.Contains(row[i].Date) {
				continue
			}
			row[i].InWeek = true
			if first < 0 {
				first = i
			}
			last = i
		}
		if first >= 0 {
			row[first].WeekStartEdge = true
			row[last].WeekEndEdge = true
		}
	}
	return g
}

// YearGrids returns the twelve month grids of anchor's year followed by the
// twelve of the next year.
func YearGrids(anchor time.Time) []Grid {
	loc := anchor.Location()
	y := anchor.Year()
	grids := make([]Grid, 0, 24)
	for _, year := range []int{y, y + 1} {
		for m := time.January; m <= time.December; m++ {
			grids = append(grids, MonthGrid(time.Date(year, m, 1, 0, 0, 0, 0, loc)))
		}
	}
	return grids
}

// EnumerateCells returns the range and grids for mode at anchor.
// Day mode has no grid; week and month have one; year has twenty-four.
func EnumerateCells(mode Mode, anchor time.Time) (Layout, error) {
	rng, err := DeriveRange(mode, anchor)
	if err != nil {
		return Layout{}, err
	}

	layout := Layout{Mode: mode, Range: rng}
	switch mode {
	case Day:
	case Week:
		layout.Grids = []Grid{WeekGrid(anchor)}
	case Month:
		layout.Grids = []Grid{MonthGrid(anchor)}
	case Year:
		layout.Grids = YearGrids(anchor)
	default:
		return Layout{}, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}
	return layout, nil
}
