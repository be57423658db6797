package schedule

import (
	"context"

	"github.com/rezkam/fieldsched/internal/domain"
)

// TaskSource returns the full current task list. No pagination is assumed.
type TaskSource interface {
	FetchTasks(ctx context.Context) ([]domain.Task, error)
}

// TeamSource returns the known teams as a bare list.
type TeamSource interface {
	FetchTeams(ctx context.Context) ([]domain.Team, error)
}

// EmployeeSource returns the known employees wrapped in an EmployeeList.
type EmployeeSource interface {
	FetchEmployees(ctx context.Context) (*domain.EmployeeList, error)
}

// Source is implemented by storage backends that serve all three collections.
type Source interface {
	TaskSource
	TeamSource
	EmployeeSource
}

// Store is a writable source. Replace swaps every collection at once; readers
// never observe a mix of old and new data.
type Store interface {
	Source
	Replace(ctx context.Context, ds domain.Dataset) error
	Close() error
}
