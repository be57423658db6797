// Package sqlite implements schedule.Store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/rezkam/fieldsched/internal/application/schedule"
	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/ptr"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

var _ schedule.Store = (*Store)(nil)

// Store is the SQLite implementation of schedule.Store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate applies the embedded migrations to the database at path.
func Migrate(ctx context.Context, path string) error {
	s, err := Open(ctx, path)
	if err != nil {
		return err
	}
	return s.Close()
}

// migrate uses a goose provider rather than the package-level goose state,
// which the postgres store configures for its own dialect.
func migrate(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FetchTasks returns every task in insertion order.
func (s *Store) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_at, end_at, task_type, status, assignee, notes
		FROM tasks
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var (
			t               domain.Task
			id, start, end  string
			status          string
			assignee, notes sql.NullString
		)
		if err := rows.Scan(&id, &start, &end, &t.Type, &status, &assignee, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.ID = domain.ID(id)
		t.Start = domain.Instant(start)
		t.End = domain.Instant(end)
		t.Status = domain.TaskStatus(status)
		t.Assignee = ptr.If(domain.ID(assignee.String), assignee.Valid)
		t.Notes = ptr.If(notes.String, notes.Valid)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// FetchTeams returns every team in insertion order.
func (s *Store) FetchTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM teams ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := []domain.Team{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, domain.Team{ID: domain.ID(id), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}
	return teams, nil
}

// FetchEmployees returns every employee in insertion order.
func (s *Store) FetchEmployees(ctx context.Context) (*domain.EmployeeList, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, phone
		FROM employees
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	list := &domain.EmployeeList{Employees: []domain.Employee{}}
	for rows.Next() {
		var (
			id    string
			e     domain.Employee
			phone sql.NullString
		)
		if err := rows.Scan(&id, &e.FirstName, &e.LastName, &phone); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e.ID = domain.ID(id)
		e.Phone = ptr.If(phone.String, phone.Valid)
		list.Employees = append(list.Employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return list, nil
}

// Replace swaps all three tables in one transaction.
func (s *Store) Replace(ctx context.Context, ds domain.Dataset) error {
	ds = ds.Normalized()
	return s.executeInTransaction(ctx, "replace", func(tx *sql.Tx) error {
		for _, table := range []string{"tasks", "teams", "employees"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for i, t := range ds.Tasks {
			assignee := sql.NullString{String: string(ptr.Deref(t.Assignee, "")), Valid: t.Assignee != nil}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tasks (id, position, start_at, end_at, task_type, status, assignee, notes)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID.String(), i, string(t.Start), string(t.End), t.Type, string(t.Status), assignee, ptrToNull(t.Notes)); err != nil {
				return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
			}
		}

		for i, t := range ds.Teams {
			if _, err := tx.ExecContext(ctx, `INSERT INTO teams (id, position, name) VALUES (?, ?, ?)`,
				t.ID.String(), i, t.Name); err != nil {
				return fmt.Errorf("failed to insert team %s: %w", t.ID, err)
			}
		}

		for i, e := range ds.Employees.Employees {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO employees (id, position, first_name, last_name, phone)
				VALUES (?, ?, ?, ?, ?)`,
				e.ID.String(), i, e.FirstName, e.LastName, ptrToNull(e.Phone)); err != nil {
				return fmt.Errorf("failed to insert employee %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) executeInTransaction(ctx context.Context, operationName string, fn func(tx *sql.Tx) error) (err error) {
	start := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			slog.ErrorContext(ctx, "transaction failed, rolling back",
				"operation", operationName,
				"error", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("transaction failed: %w (rollback error: %v)", err, rbErr)
			}
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("failed to commit transaction: %w", err)
			return
		}
		slog.DebugContext(ctx, "transaction completed",
			"operation", operationName,
			"duration_ms", time.Since(start).Milliseconds())
	}()

	err = fn(tx)
	return
}

func ptrToNull(s *string) sql.NullString {
	return sql.NullString{String: ptr.Deref(s, ""), Valid: s != nil}
}
