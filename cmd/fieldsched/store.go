package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rezkam/fieldsched/internal/application/schedule"
	"github.com/rezkam/fieldsched/internal/config"
	"github.com/rezkam/fieldsched/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/fieldsched/internal/infrastructure/persistence/sqlite"
	"github.com/rezkam/fieldsched/internal/storage/fs"
	"github.com/rezkam/fieldsched/internal/storage/gcs"
)

// openStore opens the configured storage backend.
func openStore(ctx context.Context, cfg config.StorageConfig) (schedule.Store, error) {
	switch cfg.Type {
	case config.StorageSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath)
	case config.StoragePostgres:
		return postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		})
	case config.StorageFS:
		return fs.NewStore(cfg.FSDir)
	case config.StorageGCS:
		return gcs.NewStore(ctx, cfg.GCSBucket, cfg.GCSPrefix)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStorage, cfg.Type)
	}
}

// storageTarget describes the backend for logs without leaking credentials.
func storageTarget(cfg config.StorageConfig) string {
	switch cfg.Type {
	case config.StorageSQLite:
		return cfg.SQLitePath
	case config.StoragePostgres:
		return maskPassword(cfg.DSN)
	case config.StorageFS:
		return cfg.FSDir
	case config.StorageGCS:
		return "gs://" + cfg.GCSBucket + "/" + cfg.GCSPrefix
	default:
		return ""
	}
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
