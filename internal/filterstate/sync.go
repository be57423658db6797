package filterstate

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/filter"
)

// Sync binds one screen's local filter draft to the shared Store.
//
// Local edits are pushed only when they differ from the shared state and shared
// changes are pulled only when they differ from the draft. A change carrying this
// Sync's origin token and the epoch of its own push is never pulled back, which
// keeps the two sides from echoing each other.
type Sync struct {
	id     string
	store  *Store
	logger *slog.Logger

	mu       sync.Mutex
	draft    filter.State
	pushing  bool
	lastPush uint64
	onPull   func(filter.State)

	unsubscribe func()
}

// SyncOption configures a Sync.
type SyncOption func(*Sync)

// WithOnPull registers a callback invoked with the new draft after every pull.
func WithOnPull(fn func(filter.State)) SyncOption {
	return func(s *Sync) { s.onPull = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SyncOption {
	return func(s *Sync) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSync creates a Sync whose draft starts as the store's current state.
func NewSync(store *Store, opts ...SyncOption) *Sync {
	s := &Sync{
		id:     uuid.NewString(),
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.draft = store.State()
	s.unsubscribe = store.Subscribe(s.onStoreChange)
	return s
}

// ID returns the origin token used for this Sync's pushes.
func (s *Sync) ID() string {
	return s.id
}

// Draft returns a copy of the local draft.
func (s *Sync) Draft() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Edit mutates the local draft and pushes it when it differs from the shared state.
// It reports whether a push happened.
func (s *Sync) Edit(fn func(*filter.State)) (bool, error) {
	s.mu.Lock()
	next := s.draft.Clone()
	fn(&next)
	s.draft = next.Normalized()
	s.mu.Unlock()

	return s.push()
}

// SetDraft replaces the local draft and pushes it when it differs from the shared state.
func (s *Sync) SetDraft(st filter.State) (bool, error) {
	return s.Edit(func(d *filter.State) { *d = st.Clone() })
}

func (s *Sync) push() (bool, error) {
	s.mu.Lock()
	draft := s.draft.Clone()
	shared := s.store.State()
	if draft.Equal(shared) {
		s.mu.Unlock()
		return false, nil
	}
	s.pushing = true
	s.mu.Unlock()

	change, changed, err := s.store.Dispatch(s.id, diff(shared, draft)...)

	s.mu.Lock()
	s.pushing = false
	if changed {
		s.lastPush = change.Epoch
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("filter draft rejected by shared store", "origin", s.id, "error", err)
		return false, err
	}
	return changed, nil
}

func (s *Sync) onStoreChange(c Change) {
	s.mu.Lock()
	if c.Origin == s.id && (s.pushing || c.Epoch == s.lastPush) {
		s.lastPush = c.Epoch
		s.mu.Unlock()
		return
	}
	pulled := s.pullLocked(c.State)
	draft := s.draft.Clone()
	onPull := s.onPull
	s.mu.Unlock()

	if pulled && onPull != nil {
		onPull(draft)
	}
}

// Reconcile pulls the shared state into the draft if the two diverged, for
// instance after a missed notification. It reports whether the draft changed.
func (s *Sync) Reconcile() bool {
	shared := s.store.State()

	s.mu.Lock()
	pulled := s.pullLocked(shared)
	draft := s.draft.Clone()
	onPull := s.onPull
	s.mu.Unlock()

	if pulled && onPull != nil {
		onPull(draft)
	}
	return pulled
}

func (s *Sync) pullLocked(shared filter.State) bool {
	if s.draft.Equal(shared) {
		return false
	}
	s.draft = shared.Clone()
	return true
}

// EnsureDefaults makes sure both sides hold mode and an anchor in mode's format.
// An existing shared anchor of the right format is kept; otherwise one is derived
// from now. It returns the anchor in effect.
func (s *Sync) EnsureDefaults(now time.Time, mode calendar.Mode) (string, error) {
	shared := s.store.State()
	anchor := shared.DateAnchor
	if anchor == "" || !calendar.AnchorMatchesMode(mode, anchor) {
		anchor = calendar.DefaultAnchor(mode, now)
	}

	if _, err := s.Edit(func(d *filter.State) {
		*d = shared.Clone()
		d.Mode = mode
		d.DateAnchor = anchor
	}); err != nil {
		return "", err
	}
	return anchor, nil
}

// Close stops listening to the store.
func (s *Sync) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
