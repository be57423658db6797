// Package filterstate keeps screen-local filter drafts in step with the shared
// filter store.
package filterstate

import (
	"log/slog"
	"sync"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/filter"
)

// Change is delivered to subscribers after every effective dispatch.
type Change struct {
	State   filter.State
	Origin  string
	Epoch   uint64
	Actions []string
}

// Listener receives store changes.
type Listener func(Change)

// Store is the shared cross-screen filter state.
//
// State only changes through Dispatch. Each effective dispatch increments the epoch
// and notifies subscribers in subscription order, outside the store lock.
type Store struct {
	mu     sync.RWMutex
	state  filter.State
	epoch  uint64
	logger *slog.Logger

	listeners []subscription
	nextSubID uint64
}

type subscription struct {
	id uint64
	fn Listener
}

// NewStore creates a store holding the default filter state.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{state: filter.NewState(), logger: logger}
}

// Snapshot returns a copy of the state and the epoch it belongs to.
func (s *Store) Snapshot() (filter.State, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), s.epoch
}

// State returns a copy of the current state.
func (s *Store) State() filter.State {
	st, _ := s.Snapshot()
	return st
}

// Epoch returns the number of effective dispatches so far.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Mode returns the shared calendar mode.
func (s *Store) Mode() calendar.Mode { return s.State().Mode }

// DateAnchor returns the shared date anchor, formatted for Mode.
func (s *Store) DateAnchor() string { return s.State().DateAnchor }

// Sort returns the task list sort order.
func (s *Store) Sort() filter.SortOrder { return s.State().Sort }

// Types returns a copy of the selected task types.
func (s *Store) Types() []string { return s.State().Types }

// Statuses returns a copy of the selected task statuses.
func (s *Store) Statuses() []string { return s.State().Statuses }

// Groups returns a copy of the selected assignee group keys.
func (s *Store) Groups() []string { return s.State().Groups }

// Dispatch applies actions atomically on behalf of origin.
// If any action fails nothing is applied. A dispatch that leaves the state
// unchanged does not advance the epoch or notify anyone; the returned bool
// reports whether the state changed.
func (s *Store) Dispatch(origin string, actions ...Action) (Change, bool, error) {
	s.mu.Lock()
	next := s.state.Clone()
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		if err := a.apply(&next); err != nil {
			s.mu.Unlock()
			return Change{}, false, err
		}
		names = append(names, a.Name())
	}

	if next.Equal(s.state) {
		c := Change{State: s.state.Clone(), Origin: origin, Epoch: s.epoch, Actions: names}
		s.mu.Unlock()
		return c, false, nil
	}

	s.state = next
	s.epoch++
	c := Change{State: next.Clone(), Origin: origin, Epoch: s.epoch, Actions: names}
	listeners := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		listeners[i] = sub.fn
	}
	s.mu.Unlock()

	s.logger.Debug("filter state changed", "origin", origin, "epoch", c.Epoch, "actions", names)
	for _, l := range listeners {
		l(Change{State: c.State.Clone(), Origin: c.Origin, Epoch: c.Epoch, Actions: c.Actions})
	}
	return c, true, nil
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscription{id: id, fn: l})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}
