// Package fs stores the schedule dataset as a JSON file on the local filesystem.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rezkam/fieldsched/internal/application/schedule"
	"github.com/rezkam/fieldsched/internal/domain"
)

// FileName is the dataset file inside the base directory.
const FileName = "dataset.json"

var _ schedule.Store = (*Store)(nil)

// Store is a filesystem-based implementation of schedule.Store.
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// NewStore creates a new filesystem store.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) path() string {
	return filepath.Join(s.baseDir, FileName)
}

// load reads the dataset. A missing file is an empty dataset.
func (s *Store) load() (domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Dataset{}.Normalized(), nil
		}
		return domain.Dataset{}, fmt.Errorf("failed to read file: %w", err)
	}

	var ds domain.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("failed to unmarshal dataset: %w", err)
	}
	return ds.Normalized(), nil
}

// FetchTasks returns every stored task.
func (s *Store) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	ds, err := s.load()
	if err != nil {
		return nil, err
	}
	return ds.Tasks, nil
}

// FetchTeams returns every stored team.
func (s *Store) FetchTeams(ctx context.Context) ([]domain.Team, error) {
	ds, err := s.load()
	if err != nil {
		return nil, err
	}
	return ds.Teams, nil
}

// FetchEmployees returns every stored employee.
func (s *Store) FetchEmployees(ctx context.Context) (*domain.EmployeeList, error) {
	ds, err := s.load()
	if err != nil {
		return nil, err
	}
	return &ds.Employees, nil
}

// Replace overwrites the dataset. The file is written to a temporary name and
// renamed so readers see either the old or the new dataset.
func (s *Store) Replace(ctx context.Context, ds domain.Dataset) error {
	data, err := json.MarshalIndent(ds.Normalized(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path()); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
