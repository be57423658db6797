// Package postgres implements schedule.Store on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rezkam/fieldsched/internal/application/schedule"
	"github.com/rezkam/fieldsched/internal/domain"
)

var _ schedule.Store = (*Store)(nil)

// Store provides the PostgreSQL implementation of schedule.Store.
// Rows keep the order they were written in through a position column.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL store with the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// FetchTasks returns every task in insertion order.
func (s *Store) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, start_at, end_at, task_type, status, assignee, notes
		FROM tasks
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	tasks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Task, error) {
		var (
			t        domain.Task
			id       string
			start    string
			end      string
			status   string
			assignee pgtype.Text
			notes    pgtype.Text
		)
		if err := row.Scan(&id, &start, &end, &t.Type, &status, &assignee, &notes); err != nil {
			return domain.Task{}, err
		}
		t.ID = domain.ID(id)
		t.Start = domain.Instant(start)
		t.End = domain.Instant(end)
		t.Status = domain.TaskStatus(status)
		t.Assignee = textToID(assignee)
		t.Notes = textToPtr(notes)
		return t, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tasks: %w", err)
	}
	return tasks, nil
}

// FetchTeams returns every team in insertion order.
func (s *Store) FetchTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM teams ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}

	teams, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Team, error) {
		var id, name string
		if err := row.Scan(&id, &name); err != nil {
			return domain.Team{}, err
		}
		return domain.Team{ID: domain.ID(id), Name: name}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan teams: %w", err)
	}
	return teams, nil
}

// FetchEmployees returns every employee in insertion order.
func (s *Store) FetchEmployees(ctx context.Context) (*domain.EmployeeList, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, first_name, last_name, phone
		FROM employees
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}

	employees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Employee, error) {
		var (
			id    string
			e     domain.Employee
			phone pgtype.Text
		)
		if err := row.Scan(&id, &e.FirstName, &e.LastName, &phone); err != nil {
			return domain.Employee{}, err
		}
		e.ID = domain.ID(id)
		e.Phone = textToPtr(phone)
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan employees: %w", err)
	}
	return &domain.EmployeeList{Employees: employees}, nil
}

// Replace swaps all three tables in one transaction using COPY.
func (s *Store) Replace(ctx context.Context, ds domain.Dataset) error {
	ds = ds.Normalized()
	return s.executeInTransaction(ctx, "replace", func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE tasks, teams, employees`); err != nil {
			return fmt.Errorf("failed to truncate tables: %w", err)
		}

		taskRows := make([][]any, len(ds.Tasks))
		for i, t := range ds.Tasks {
			taskRows[i] = []any{t.ID.String(), i, string(t.Start), string(t.End), t.Type, string(t.Status), idToText(t.Assignee), ptrToText(t.Notes)}
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"tasks"},
			[]string{"id", "position", "start_at", "end_at", "task_type", "status", "assignee", "notes"},
			pgx.CopyFromRows(taskRows)); err != nil {
			return fmt.Errorf("failed to copy tasks: %w", err)
		}

		teamRows := make([][]any, len(ds.Teams))
		for i, t := range ds.Teams {
			teamRows[i] = []any{t.ID.String(), i, t.Name}
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"teams"},
			[]string{"id", "position", "name"},
			pgx.CopyFromRows(teamRows)); err != nil {
			return fmt.Errorf("failed to copy teams: %w", err)
		}

		employeeRows := make([][]any, len(ds.Employees.Employees))
		for i, e := range ds.Employees.Employees {
			employeeRows[i] = []any{e.ID.String(), i, e.FirstName, e.LastName, ptrToText(e.Phone)}
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"employees"},
			[]string{"id", "position", "first_name", "last_name", "phone"},
			pgx.CopyFromRows(employeeRows)); err != nil {
			return fmt.Errorf("failed to copy employees: %w", err)
		}
		return nil
	})
}

// finalizeTx rolls back on error and commits on success.
func finalizeTx(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		slog.ErrorContext(ctx, "transaction failed, rolling back", "error", *err)
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.ErrorContext(ctx, "rollback failed",
				"original_error", *err,
				"rollback_error", rbErr)
			*err = fmt.Errorf("transaction failed: %w (rollback error: %v)", *err, rbErr)
		}
		return
	}
	if *err = tx.Commit(ctx); *err != nil {
		slog.ErrorContext(ctx, "transaction commit failed", "error", *err)
	}
}

// executeInTransaction runs fn in a transaction with logging and panic recovery.
func (s *Store) executeInTransaction(ctx context.Context, operationName string, fn func(tx pgx.Tx) error) (err error) {
	start := time.Now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to begin transaction",
			"operation", operationName,
			"error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			slog.ErrorContext(ctx, "transaction panic, rolling back",
				"operation", operationName,
				"panic", p)
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.ErrorContext(ctx, "rollback after panic failed",
					"operation", operationName,
					"rollback_error", rbErr)
			}
			panic(p)
		}

		finalizeTx(ctx, tx, &err)
		if err == nil {
			slog.DebugContext(ctx, "transaction completed",
				"operation", operationName,
				"duration_ms", time.Since(start).Milliseconds())
		}
	}()

	err = fn(tx)
	return
}
