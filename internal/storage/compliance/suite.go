// Package compliance holds the behaviour every schedule.Store backend must share.
package compliance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/fieldsched/internal/application/schedule"
	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/ptr"
)

// Dataset returns a small dataset with numeric and uuid ids, an unassigned task,
// an unparsable start and an employee without a phone.
func Dataset() domain.Dataset {
	return domain.Dataset{
		Tasks: []domain.Task{
			{
				ID:       "101",
				Start:    "2024-03-31T08:00:00+02:00",
				End:      "2024-03-31T10:00:00+02:00",
				Type:     "montaż",
				Status:   domain.TaskStatusDone,
				Assignee: ptr.To(domain.ID("5")),
				Notes:    ptr.To("klatka B, drugie piętro"),
			},
			{
				ID:     domain.ID(uuid.NewString()),
				Start:  "2024-04-02 09:30",
				Type:   "przegląd",
				Status: domain.TaskStatusPlanned,
			},
			{
				ID:       "103",
				Start:    "not a date",
				Type:     "szkolenie",
				Status:   domain.TaskStatusNotDone,
				Assignee: ptr.To(domain.ID("12")),
			},
		},
		Teams: []domain.Team{
			{ID: "5", Name: "Ekipa A"},
			{ID: "9", Name: "Ekipa B"},
		},
		Employees: domain.EmployeeList{Employees: []domain.Employee{
			{ID: "12", FirstName: "Jan", LastName: "Kowalski", Phone: ptr.To("+48 600 100 200")},
			{ID: "13", FirstName: "Anna", LastName: "Nowak"},
		}},
	}
}

// RunStoreComplianceTest runs the shared checks. setup returns a fresh, empty store
// and a cleanup function.
func RunStoreComplianceTest(t *testing.T, setup func() (schedule.Store, func())) {
	t.Run("EmptyStoreReturnsEmptyCollections", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		tasks, err := store.FetchTasks(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)

		teams, err := store.FetchTeams(ctx)
		require.NoError(t, err)
		assert.Empty(t, teams)

		employees, err := store.FetchEmployees(ctx)
		require.NoError(t, err)
		require.NotNil(t, employees)
		assert.Empty(t, employees.Employees)
	})

	t.Run("ReplaceAndFetch", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()
		ds := Dataset()

		require.NoError(t, store.Replace(ctx, ds))

		tasks, err := store.FetchTasks(ctx)
		require.NoError(t, err)
		assert.Equal(t, ds.Tasks, tasks)

		teams, err := store.FetchTeams(ctx)
		require.NoError(t, err)
		assert.Equal(t, ds.Teams, teams)

		employees, err := store.FetchEmployees(ctx)
		require.NoError(t, err)
		assert.Equal(t, ds.Employees.Employees, employees.Employees)
	})

	t.Run("ReplaceDropsPreviousData", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		require.NoError(t, store.Replace(ctx, Dataset()))

		next := domain.Dataset{
			Tasks: []domain.Task{{ID: "900", Start: "2025-01-02", Type: "serwis", Status: domain.TaskStatusPlanned}},
		}
		require.NoError(t, store.Replace(ctx, next))

		tasks, err := store.FetchTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, domain.ID("900"), tasks[0].ID)
		assert.Nil(t, tasks[0].Assignee)
		assert.Nil(t, tasks[0].Notes)

		teams, err := store.FetchTeams(ctx)
		require.NoError(t, err)
		assert.Empty(t, teams)

		employees, err := store.FetchEmployees(ctx)
		require.NoError(t, err)
		assert.Empty(t, employees.Employees)
	})

	t.Run("PreservesOrder", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		ds := domain.Dataset{Teams: []domain.Team{{ID: "30", Name: "C"}, {ID: "10", Name: "A"}, {ID: "20", Name: "B"}}}
		require.NoError(t, store.Replace(ctx, ds))

		teams, err := store.FetchTeams(ctx)
		require.NoError(t, err)
		assert.Equal(t, ds.Teams, teams)
	})
}
