package filterstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/filter"
)

func TestStore_DefaultState(t *testing.T) {
	s := NewStore(nil)

	st, epoch := s.Snapshot()
	assert.Equal(t, uint64(0), epoch)
	assert.Equal(t, filter.NewState(), st)
	assert.Equal(t, calendar.Month, s.Mode())
	assert.Equal(t, filter.SortNearest, s.Sort())
	assert.Empty(t, s.DateAnchor())
}

func TestStore_DispatchAppliesAllActions(t *testing.T) {
	s := NewStore(nil)

	c, changed, err := s.Dispatch("screen",
		SetMode(calendar.Week),
		SetDate("2024-03-11"),
		SetSort(filter.SortFarthest),
		SetTypes("montaż", "przegląd", "montaż"),
		SetStatuses("wykonane"),
		SetGroups("5"),
	)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, uint64(1), c.Epoch)
	assert.Equal(t, "screen", c.Origin)
	assert.Equal(t, []string{ActionSetMode, ActionSetDate, ActionSetSort, ActionSetType, ActionSetStatus, ActionSetGroup}, c.Actions)

	assert.Equal(t, calendar.Week, s.Mode())
	assert.Equal(t, "2024-03-11", s.DateAnchor())
	assert.Equal(t, filter.SortFarthest, s.Sort())
	assert.Equal(t, []string{"montaż", "przegląd"}, s.Types())
	assert.Equal(t, []string{"wykonane"}, s.Statuses())
	assert.Equal(t, []string{"5"}, s.Groups())
}

func TestStore_DispatchIsAtomic(t *testing.T) {
	s := NewStore(nil)

	_, changed, err := s.Dispatch("screen", SetDate("2024-03"), SetSort("sideways"))
	require.ErrorIs(t, err, domain.ErrInvalidSortOrder)
	assert.False(t, changed)
	assert.Empty(t, s.DateAnchor())
	assert.Equal(t, uint64(0), s.Epoch())
}

func TestStore_NoOpDispatchDoesNotNotify(t *testing.T) {
	s := NewStore(nil)
	calls := 0
	s.Subscribe(func(Change) { calls++ })

	_, changed, err := s.Dispatch("screen", SetSort(filter.SortNearest))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0, calls)
	assert.Equal(t, uint64(0), s.Epoch())
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	s := NewStore(nil)
	var got []Change
	unsubscribe := s.Subscribe(func(c Change) { got = append(got, c) })

	_, _, err := s.Dispatch("a", SetDate("2024-03"))
	require.NoError(t, err)
	unsubscribe()
	unsubscribe()
	_, _, err = s.Dispatch("a", SetDate("2024-04"))
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "2024-03", got[0].State.DateAnchor)
	assert.Equal(t, uint64(1), got[0].Epoch)
}

func TestStore_ListenerGetsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Subscribe(func(c Change) { c.State.Types[0] = "mutated" })

	_, _, err := s.Dispatch("a", SetTypes("montaż"))
	require.NoError(t, err)
	assert.Equal(t, []string{"montaż"}, s.Types())
}

func TestStore_ResetAll(t *testing.T) {
	s := NewStore(nil)
	_, _, err := s.Dispatch("a", SetMode(calendar.Day), SetDate("2024-03-15"), SetTypes("montaż"))
	require.NoError(t, err)

	_, changed, err := s.Dispatch("a", ResetAll())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, s.State().Equal(filter.NewState()))
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		values  []string
		want    func(t *testing.T, st filter.State)
		wantErr error
	}{
		{
			name:   "set date",
			action: "set-date",
			values: []string{"2024-03"},
			want:   func(t *testing.T, st filter.State) { assert.Equal(t, "2024-03", st.DateAnchor) },
		},
		{
			name:   "set date without value clears it",
			action: "set-date",
			want:   func(t *testing.T, st filter.State) { assert.Empty(t, st.DateAnchor) },
		},
		{
			name:   "set mode is case-insensitive",
			action: "SET-MODE",
			values: []string{"Week"},
			want:   func(t *testing.T, st filter.State) { assert.Equal(t, calendar.Week, st.Mode) },
		},
		{
			name:   "set type keeps every value",
			action: "set-type",
			values: []string{"serwis", "montaż"},
			want:   func(t *testing.T, st filter.State) { assert.Equal(t, []string{"montaż", "serwis"}, st.Types) },
		},
		{
			name:    "invalid mode",
			action:  "set-mode",
			values:  []string{"decade"},
			wantErr: domain.ErrInvalidMode,
		},
		{
			name:    "unknown action",
			action:  "set-colour",
			wantErr: domain.ErrUnknownAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil)
			a, err := ParseAction(tt.action, tt.values)
			if err == nil {
				_, _, err = s.Dispatch("test", a)
			}
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.want(t, s.State())
		})
	}
}
