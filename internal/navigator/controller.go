// Package navigator drives calendar mode transitions and paging for one screen.
package navigator

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/filter"
	"github.com/rezkam/fieldsched/internal/filterstate"
)

// Transition describes paging in flight. Direction is -1, 0 or +1.
type Transition struct {
	Direction int `json:"direction"`
}

// View is what a calendar screen renders.
type View struct {
	Mode       calendar.Mode   `json:"mode"`
	Anchor     string          `json:"anchor"`
	Date       time.Time       `json:"date"`
	Range      calendar.Range  `json:"range"`
	Layout     calendar.Layout `json:"layout"`
	Transition Transition      `json:"transition"`
}

// Controller owns the calendar mode and anchor date of one screen and writes
// both through its filter Sync.
type Controller struct {
	mu         sync.Mutex
	sync       *filterstate.Sync
	mode       calendar.Mode
	anchor     time.Time
	transition Transition

	now    func() time.Time
	loc    *time.Location
	clamp  calendar.ClampPolicy
	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLocation sets the calendar time zone.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClampPolicy sets how month paging treats days missing from the destination month.
func WithClampPolicy(p calendar.ClampPolicy) Option {
	return func(c *Controller) { c.clamp = p }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a controller in the mode held by s, falling back to the default mode,
// and makes sure an anchor for that mode is written on both sides.
func New(s *filterstate.Sync, opts ...Option) (*Controller, error) {
	c := &Controller{
		sync:   s,
		now:    time.Now,
		loc:    time.Local,
		clamp:  calendar.ClampLastDay,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	mode := s.Draft().Mode
	if !mode.Valid() {
		mode = filter.DefaultMode
	}
	if err := c.enterMode(mode); err != nil {
		return nil, err
	}
	return c, nil
}

// Mode returns the current mode.
func (c *Controller) Mode() calendar.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.followLocked()
	return c.mode
}

// SetMode switches to mode. Switching to the current mode does nothing.
func (c *Controller) SetMode(mode calendar.Mode) (View, error) {
	if !mode.Valid() {
		return View{}, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.followLocked()

	if mode != c.mode {
		c.logger.Debug("calendar mode changed", "from", c.mode, "to", mode)
		if err := c.enterModeLocked(mode); err != nil {
			return View{}, err
		}
	}
	return c.viewLocked()
}

// Next pages one period forward.
func (c *Controller) Next() (View, error) {
	return c.page(1)
}

// Prev pages one period back.
func (c *Controller) Prev() (View, error) {
	return c.page(-1)
}

// Today moves the anchor back to the current date.
func (c *Controller) Today() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.followLocked()

	today := calendar.StartOfDay(c.now().In(c.loc))
	c.transition = Transition{Direction: direction(c.anchor, today)}
	if err := c.moveLocked(today); err != nil {
		return View{}, err
	}
	return c.viewLocked()
}

// GoTo sets mode and anchor explicitly. The anchor is parsed leniently for mode.
func (c *Controller) GoTo(mode calendar.Mode, anchor string) (View, error) {
	if !mode.Valid() {
		return View{}, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}
	t, err := calendar.ParseAnchor(mode, anchor, c.loc)
	if err != nil {
		return View{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.followLocked()

	if mode != c.mode {
		c.transition = Transition{}
	} else {
		c.transition = Transition{Direction: direction(c.anchor, t)}
	}
	c.mode = mode
	if err := c.moveLocked(t); err != nil {
		return View{}, err
	}
	return c.viewLocked()
}

// View returns the current view after catching up with the shared state.
func (c *Controller) View() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.followLocked()
	return c.viewLocked()
}

func (c *Controller) page(step int) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.followLocked()

	t, err := calendar.Page(c.mode, c.anchor, step, c.clamp)
	if err != nil {
		return View{}, err
	}
	c.transition = Transition{Direction: step}
	if err := c.moveLocked(t); err != nil {
		return View{}, err
	}
	return c.viewLocked()
}

func (c *Controller) enterMode(mode calendar.Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enterModeLocked(mode)
}

// enterModeLocked switches mode, drops in-flight paging and rewrites the anchor
// unless the shared one already fits the new mode.
func (c *Controller) enterModeLocked(mode calendar.Mode) error {
	c.mode = mode
	c.transition = Transition{}

	anchor, err := c.sync.EnsureDefaults(c.now().In(c.loc), mode)
	if err != nil {
		return err
	}
	t, err := calendar.ParseAnchor(mode, anchor, c.loc)
	if err != nil {
		return err
	}
	c.anchor = t
	return nil
}

func (c *Controller) moveLocked(t time.Time) error {
	if c.mode == calendar.Week {
		t = calendar.WeekStart(t)
	}
	c.anchor = t

	mode, anchor := c.mode, calendar.FormatAnchor(c.mode, t)
	_, err := c.sync.Edit(func(d *filter.State) {
		d.Mode = mode
		d.DateAnchor = anchor
	})
	return err
}

// followLocked adopts mode and anchor changes made by other screens. The
// anchor keeps its day of month while the shared anchor still encodes it.
func (c *Controller) followLocked() {
	c.sync.Reconcile()
	draft := c.sync.Draft()

	if draft.Mode.Valid() && draft.Mode != c.mode {
		if err := c.enterModeLocked(draft.Mode); err != nil {
			c.logger.Warn("failed to follow shared calendar mode", "mode", draft.Mode, "error", err)
		}
		return
	}
	if draft.DateAnchor == calendar.FormatAnchor(c.mode, c.anchor) {
		return
	}

	t, err := calendar.ParseAnchor(c.mode, draft.DateAnchor, c.loc)
	if err != nil {
		c.logger.Warn("shared anchor does not fit calendar mode, resetting", "mode", c.mode, "anchor", draft.DateAnchor)
		if err := c.enterModeLocked(c.mode); err != nil {
			c.logger.Warn("failed to reset calendar anchor", "mode", c.mode, "error", err)
		}
		return
	}
	c.anchor = t
}

func (c *Controller) viewLocked() (View, error) {
	rng, err := calendar.DeriveRange(c.mode, c.anchor)
	if err != nil {
		return View{}, err
	}
	layout, err := calendar.EnumerateCells(c.mode, c.anchor)
	if err != nil {
		return View{}, err
	}
	return View{
		Mode:       c.mode,
		Anchor:     calendar.FormatAnchor(c.mode, c.anchor),
		Date:       c.anchor,
		Range:      rng,
		Layout:     layout,
		Transition: c.transition,
	}, nil
}

func direction(from, to time.Time) int {
	switch {
	case to.After(from):
		return 1
	case to.Before(from):
		return -1
	default:
		return 0
	}
}
