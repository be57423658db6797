// Package gcs stores the schedule dataset as a JSON object in Google Cloud Storage.
package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/rezkam/fieldsched/internal/application/schedule"
	"github.com/rezkam/fieldsched/internal/domain"
)

// ObjectName is the dataset object name under the configured prefix.
const ObjectName = "dataset.json"

var _ schedule.Store = (*Store)(nil)

// Store is a GCS-based implementation of schedule.Store.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewStore creates a new GCS store.
// It assumes the client is authenticated (e.g. via GOOGLE_APPLICATION_CREDENTIALS).
func NewStore(ctx context.Context, bucketName, prefix string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return NewStoreWithClient(client, bucketName, prefix), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *storage.Client, bucketName, prefix string) *Store {
	return &Store{
		client: client,
		bucket: bucketName,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (s *Store) objectName() string {
	if s.prefix == "" {
		return ObjectName
	}
	return path.Join(s.prefix, ObjectName)
}

func (s *Store) load(ctx context.Context) (domain.Dataset, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.objectName()).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return domain.Dataset{}.Normalized(), nil
		}
		return domain.Dataset{}, fmt.Errorf("failed to read object: %w", err)
	}
	defer r.Close()

	var ds domain.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return ds.Normalized(), nil
}

// FetchTasks returns every stored task.
func (s *Store) FetchTasks(ctx context.Context) ([]domain.Task, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Tasks, nil
}

// FetchTeams returns every stored team.
func (s *Store) FetchTeams(ctx context.Context) ([]domain.Team, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Teams, nil
}

// FetchEmployees returns every stored employee.
func (s *Store) FetchEmployees(ctx context.Context) (*domain.EmployeeList, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &ds.Employees, nil
}

// Replace overwrites the dataset object. Object writes are atomic in GCS.
func (s *Store) Replace(ctx context.Context, ds domain.Dataset) error {
	data, err := json.Marshal(ds.Normalized())
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	w := s.client.Bucket(s.bucket).Object(s.objectName()).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object: %w", err)
	}
	return nil
}

// Objects lists the object names under the store prefix.
func (s *Store) Objects(ctx context.Context) ([]string, error) {
	q := &storage.Query{}
	if s.prefix != "" {
		q.Prefix = s.prefix + "/"
	}

	var names []string
	it := s.client.Bucket(s.bucket).Objects(ctx, q)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// Close closes the GCS client.
func (s *Store) Close() error {
	return s.client.Close()
}
