package filterstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/filter"
)

func TestSync_PushesLocalEdits(t *testing.T) {
	store := NewStore(nil)
	s := NewSync(store)
	defer s.Close()

	pushed, err := s.Edit(func(d *filter.State) {
		d.Types = []string{"montaż"}
		d.Sort = filter.SortFarthest
	})
	require.NoError(t, err)
	assert.True(t, pushed)
	assert.Equal(t, []string{"montaż"}, store.Types())
	assert.Equal(t, filter.SortFarthest, store.Sort())
	assert.Equal(t, uint64(1), store.Epoch())
}

func TestSync_SkipsPushWhenEqual(t *testing.T) {
	store := NewStore(nil)
	s := NewSync(store)
	defer s.Close()

	pushed, err := s.Edit(func(d *filter.State) {
		d.Types = []string{}
	})
	require.NoError(t, err)
	assert.False(t, pushed)
	assert.Equal(t, uint64(0), store.Epoch())
}

func TestSync_OwnPushIsNotPulledBack(t *testing.T) {
	store := NewStore(nil)
	pulls := 0
	s := NewSync(store, WithOnPull(func(filter.State) { pulls++ }))
	defer s.Close()

	_, err := s.Edit(func(d *filter.State) { d.Groups = []string{"5"} })
	require.NoError(t, err)

	assert.Equal(t, 0, pulls)
	assert.Equal(t, uint64(1), store.Epoch())
}

func TestSync_PullsForeignChanges(t *testing.T) {
	store := NewStore(nil)
	var pulled []filter.State
	s := NewSync(store, WithOnPull(func(st filter.State) { pulled = append(pulled, st) }))
	defer s.Close()

	_, _, err := store.Dispatch("other-screen", SetStatuses("wykonane"))
	require.NoError(t, err)

	require.Len(t, pulled, 1)
	assert.Equal(t, []string{"wykonane"}, pulled[0].Statuses)
	assert.Equal(t, []string{"wykonane"}, s.Draft().Statuses)
}

func TestSync_TwoScreensConverge(t *testing.T) {
	store := NewStore(nil)
	a := NewSync(store)
	b := NewSync(store)
	defer a.Close()
	defer b.Close()

	_, err := a.Edit(func(d *filter.State) { d.Types = []string{"przegląd"} })
	require.NoError(t, err)
	_, err = b.Edit(func(d *filter.State) { d.Statuses = []string{"wykonane"} })
	require.NoError(t, err)

	assert.True(t, a.Draft().Equal(store.State()))
	assert.True(t, b.Draft().Equal(store.State()))
	assert.Equal(t, []string{"przegląd"}, store.Types())
	assert.Equal(t, []string{"wykonane"}, store.Statuses())
	// one dispatch per edit, no echoes
	assert.Equal(t, uint64(2), store.Epoch())
}

func TestSync_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		edit func(d *filter.State)
	}{
		{"date", func(d *filter.State) { d.DateAnchor = "2024-03" }},
		{"sort", func(d *filter.State) { d.Sort = filter.SortFarthest }},
		{"types", func(d *filter.State) { d.Types = []string{"serwis", "montaż"} }},
		{"statuses", func(d *filter.State) { d.Statuses = []string{"niewykonane"} }},
		{"groups", func(d *filter.State) { d.Groups = []string{"unassigned", "3"} }},
		{"mode", func(d *filter.State) { d.Mode = calendar.Year }},
		{"everything", func(d *filter.State) {
			d.Mode = calendar.Day
			d.DateAnchor = "2024-03-15"
			d.Sort = filter.SortFarthest
			d.Types = []string{"montaż"}
			d.Statuses = []string{"wykonane"}
			d.Groups = []string{"7"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(nil)
			writer := NewSync(store)
			reader := NewSync(store)
			defer writer.Close()
			defer reader.Close()

			_, err := writer.Edit(tt.edit)
			require.NoError(t, err)

			want := writer.Draft()
			assert.True(t, want.Equal(store.State()))
			assert.True(t, want.Equal(reader.Draft()))

			// a fresh screen mounted after the edit reads the same state
			late := NewSync(store)
			defer late.Close()
			assert.True(t, want.Equal(late.Draft()))
		})
	}
}

func TestSync_ClosedSyncStopsPulling(t *testing.T) {
	store := NewStore(nil)
	s := NewSync(store)
	s.Close()

	_, _, err := store.Dispatch("other", SetDate("2024-05"))
	require.NoError(t, err)
	assert.Empty(t, s.Draft().DateAnchor)

	assert.True(t, s.Reconcile())
	assert.Equal(t, "2024-05", s.Draft().DateAnchor)
	assert.False(t, s.Reconcile())
}

func TestSync_EnsureDefaults(t *testing.T) {
	now := time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		sharedMode calendar.Mode
		shared     string
		mode       calendar.Mode
		want       string
	}{
		{"no anchor in month mode", calendar.Month, "", calendar.Month, "2024-03"},
		{"no anchor in week mode", calendar.Month, "", calendar.Week, "2024-03-11"},
		{"no anchor in day mode", calendar.Month, "", calendar.Day, "2024-03-13"},
		{"no anchor in year mode", calendar.Month, "", calendar.Year, "2024"},
		{"matching anchor kept", calendar.Month, "2023-11", calendar.Month, "2023-11"},
		{"mismatching anchor replaced", calendar.Month, "2023-11", calendar.Day, "2024-03-13"},
		{"week anchor that is not a monday replaced", calendar.Week, "2024-03-13", calendar.Week, "2024-03-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(nil)
			_, _, err := store.Dispatch("setup", SetMode(tt.sharedMode), SetDate(tt.shared))
			require.NoError(t, err)

			s := NewSync(store)
			defer s.Close()

			got, err := s.EnsureDefaults(now, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, store.DateAnchor())
			assert.Equal(t, tt.mode, store.Mode())
			assert.Equal(t, tt.want, s.Draft().DateAnchor)
		})
	}
}
