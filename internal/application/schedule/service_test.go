package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/fieldsched/internal/calendar"
	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/filter"
	"github.com/rezkam/fieldsched/internal/ptr"
)

type fakeSource struct {
	tasks     []domain.Task
	teams     []domain.Team
	employees *domain.EmployeeList
	err       error
	calls     int
}

func (f *fakeSource) FetchTasks(context.Context) ([]domain.Task, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

func (f *fakeSource) FetchTeams(context.Context) ([]domain.Team, error) {
	return f.teams, nil
}

func (f *fakeSource) FetchEmployees(context.Context) (*domain.EmployeeList, error) {
	return f.employees, nil
}

func task(id, start, typ string, status domain.TaskStatus, assignee string) domain.Task {
	t := domain.Task{ID: domain.ID(id), Start: domain.Instant(start), Type: typ, Status: status}
	if assignee != "" {
		t.Assignee = ptr.To(domain.ID(assignee))
	}
	return t
}

func newTestService(t *testing.T, src *fakeSource) *Service {
	t.Helper()
	svc, err := NewService(src, src, src, Config{Location: time.UTC}, nil)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC) }
	return svc
}

func fixture() *fakeSource {
	return &fakeSource{
		tasks: []domain.Task{
			task("1", "2024-03-11T08:00:00Z", "montaż", domain.TaskStatusDone, "5"),
			task("2", "2024-03-11T08:30:00Z", "przegląd", domain.TaskStatusPlanned, "5"),
			task("3", "2024-03-20T10:00:00Z", "szkolenie", domain.TaskStatusNotDone, "12"),
			task("4", "garbage", "serwis", domain.TaskStatusPlanned, ""),
		},
		teams: []domain.Team{{ID: "5", Name: "Ekipa A"}, {ID: "9", Name: "Ekipa B"}},
		employees: &domain.EmployeeList{Employees: []domain.Employee{
			{ID: "12", FirstName: "Jan", LastName: "Kowalski"},
		}},
	}
}

func TestService_EmptyBeforeRefresh(t *testing.T) {
	svc := newTestService(t, fixture())

	tasks, status := svc.TaskList(context.Background(), filter.NewState())
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)
	assert.True(t, status.Loading)
	assert.Empty(t, status.Error)
	assert.Equal(t, status, svc.Status())

	assert.Equal(t, []filter.Option{{Key: domain.Unassigned, Label: filter.UnassignedLabel, Kind: filter.OptionUnassigned}},
		svc.GroupOptions(context.Background(), nil))
}

func TestService_Refresh(t *testing.T) {
	src := fixture()
	svc := newTestService(t, src)

	require.NoError(t, svc.Refresh(context.Background()))

	snap := svc.Snapshot()
	assert.Len(t, snap.Tasks, 4)
	assert.Len(t, snap.Teams, 2)
	assert.Len(t, snap.Employees.Items(), 1)
	assert.NoError(t, snap.Err)
	assert.Equal(t, time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC), snap.FetchedAt)
}

func TestService_RefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	src := fixture()
	svc := newTestService(t, src)
	require.NoError(t, svc.Refresh(context.Background()))

	src.err = errors.New("connection refused")
	err := svc.Refresh(context.Background())
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)

	snap := svc.Snapshot()
	assert.Len(t, snap.Tasks, 4)
	require.Error(t, snap.Err)

	tasks, status := svc.TaskList(context.Background(), filter.NewState())
	assert.Len(t, tasks, 4)
	assert.False(t, status.Loading)
	assert.Contains(t, status.Error, "connection refused")

	src.err = nil
	require.NoError(t, svc.Refresh(context.Background()))
	_, status = svc.TaskList(context.Background(), filter.NewState())
	assert.Empty(t, status.Error)
}

func TestService_RefreshNormalisesAbsentCollections(t *testing.T) {
	svc := newTestService(t, &fakeSource{})
	require.NoError(t, svc.Refresh(context.Background()))

	snap := svc.Snapshot()
	assert.NotNil(t, snap.Tasks)
	assert.NotNil(t, snap.Teams)
	require.NotNil(t, snap.Employees)
	assert.NotNil(t, snap.Employees.Employees)

	cells, _ := svc.Calendar(context.Background(), calendar.Range{
		Start: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:   calendar.EndOfDay(time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)),
	})
	assert.Equal(t, 0, cells.Total())
}

func TestService_RefreshLeavesSourceListUntouched(t *testing.T) {
	src := &fakeSource{employees: &domain.EmployeeList{}}
	svc := newTestService(t, src)
	require.NoError(t, svc.Refresh(context.Background()))

	assert.Nil(t, src.employees.Employees)
	snap := svc.Snapshot()
	assert.NotSame(t, src.employees, snap.Employees)
	assert.NotNil(t, snap.Employees.Employees)
}

func TestService_Calendar(t *testing.T) {
	svc := newTestService(t, fixture())
	require.NoError(t, svc.Refresh(context.Background()))

	rng, err := calendar.DeriveRange(calendar.Week, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	cells, status := svc.Calendar(context.Background(), rng)
	assert.False(t, status.Loading)
	assert.Equal(t, 2, cells.Total())
	assert.Equal(t, 2, cells.Count(time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []domain.ID{"4"}, cells.Skipped)
}

func TestService_Day(t *testing.T) {
	svc := newTestService(t, fixture())
	require.NoError(t, svc.Refresh(context.Background()))

	grid, _ := svc.Day(context.Background(), time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{"5", "9"}, grid.Keys)

	got := grid.At(8, "5")
	require.Len(t, got, 2)
	assert.Equal(t, domain.ID("1"), got[0].ID)
	assert.Equal(t, domain.ID("2"), got[1].ID)
}

func TestService_TaskList(t *testing.T) {
	svc := newTestService(t, fixture())
	require.NoError(t, svc.Refresh(context.Background()))

	st := filter.NewState()
	st.Types = []string{"montaż", "przegląd"}
	st.Sort = filter.SortFarthest

	tasks, _ := svc.TaskList(context.Background(), st)
	require.Len(t, tasks, 2)
	assert.Equal(t, domain.ID("1"), tasks[0].ID)
	assert.Equal(t, domain.ID("2"), tasks[1].ID)
}

func TestService_GroupOptions(t *testing.T) {
	svc := newTestService(t, fixture())
	require.NoError(t, svc.Refresh(context.Background()))

	crew := svc.GroupOptions(context.Background(), []string{"montaż"})
	require.Len(t, crew, 3)
	assert.Equal(t, domain.Unassigned, crew[0].Key)
	assert.Equal(t, filter.OptionTeam, crew[1].Kind)

	people := svc.GroupOptions(context.Background(), []string{"szkolenie"})
	require.Len(t, people, 2)
	assert.Equal(t, "12", people[1].Key)
	assert.Equal(t, "Jan Kowalski", people[1].Label)
}

func TestService_TypeOptions(t *testing.T) {
	svc := newTestService(t, fixture())
	require.NoError(t, svc.Refresh(context.Background()))

	got := svc.TypeOptions(context.Background(), []string{"Dezynfekcja"})
	assert.Equal(t, []string{"dezynfekcja", "montaż", "przegląd", "serwis", "szkolenie"}, got)
}

func TestService_TaskLookup(t *testing.T) {
	svc := newTestService(t, fixture())
	require.NoError(t, svc.Refresh(context.Background()))

	got, err := svc.Task(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "szkolenie", got.Type)

	_, err = svc.Task(context.Background(), "404")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestService_Label(t *testing.T) {
	svc := newTestService(t, fixture())
	require.NoError(t, svc.Refresh(context.Background()))

	assert.Equal(t, "Ekipa A", svc.Label("5"))
	assert.Equal(t, "Jan Kowalski", svc.Label("12"))
	assert.Equal(t, filter.UnassignedLabel, svc.Label(domain.Unassigned))
	assert.Equal(t, "77", svc.Label("77"))
}
