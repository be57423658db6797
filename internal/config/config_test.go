package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/fieldsched/internal/calendar"
)

func TestLoadServerConfig_Defaults(t *testing.T) {
	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageSQLite, cfg.Storage.Type)
	assert.Equal(t, "./fieldsched.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, int64(65536), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, "@every 1m", cfg.Refresh.Schedule)
	assert.Equal(t, 30*time.Second, cfg.Refresh.Timeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.Observability.OTelEnabled)
	assert.Equal(t, "fieldsched", cfg.Observability.ServiceName)
	assert.Equal(t, calendar.ClampLastDay, cfg.Calendar.Clamp())
	assert.Equal(t, 2, cfg.Calendar.CellCapacity)
	assert.Empty(t, cfg.Calendar.ExtraTypes)
}

func TestLoadServerConfig_WithEnv(t *testing.T) {
	t.Setenv("FIELDSCHED_STORAGE_TYPE", "postgres")
	t.Setenv("FIELDSCHED_DB_DSN", "postgres://fs:secret@db:5432/fieldsched")
	t.Setenv("FIELDSCHED_DB_MAX_OPEN_CONNS", "50")
	t.Setenv("FIELDSCHED_HTTP_PORT", "9090")
	t.Setenv("FIELDSCHED_TIMEZONE", "UTC")
	t.Setenv("FIELDSCHED_MONTH_PAGING_CLAMP", "first")
	t.Setenv("FIELDSCHED_EXTRA_TYPES", "serwis,dezynfekcja")
	t.Setenv("FIELDSCHED_REFRESH_SCHEDULE", "@every 30s")
	t.Setenv("FIELDSCHED_OTEL_ENABLED", "true")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Storage.Type)
	assert.Equal(t, "postgres://fs:secret@db:5432/fieldsched", cfg.Storage.DSN)
	assert.Equal(t, 50, cfg.Storage.MaxOpenConns)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, time.UTC, cfg.Calendar.Location())
	assert.Equal(t, calendar.ClampFirstDay, cfg.Calendar.Clamp())
	assert.Equal(t, []string{"serwis", "dezynfekcja"}, cfg.Calendar.ExtraTypes)
	assert.Equal(t, "@every 30s", cfg.Refresh.Schedule)
	assert.True(t, cfg.Observability.OTelEnabled)
}

func TestStorageConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StorageConfig
		wantErr error
	}{
		{"sqlite", StorageConfig{Type: StorageSQLite, SQLitePath: "x.db"}, nil},
		{"postgres", StorageConfig{Type: StoragePostgres, DSN: "postgres://localhost/db"}, nil},
		{"postgres without dsn", StorageConfig{Type: StoragePostgres}, ErrDSNRequired},
		{"fs", StorageConfig{Type: StorageFS, FSDir: "data"}, nil},
		{"gcs", StorageConfig{Type: StorageGCS, GCSBucket: "b"}, nil},
		{"gcs without bucket", StorageConfig{Type: StorageGCS}, ErrBucketRequired},
		{"unknown", StorageConfig{Type: "mysql"}, ErrUnknownStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoadServerConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"time zone", "FIELDSCHED_TIMEZONE", "Mars/Olympus", "FIELDSCHED_TIMEZONE"},
		{"clamp", "FIELDSCHED_MONTH_PAGING_CLAMP", "middle", "FIELDSCHED_MONTH_PAGING_CLAMP"},
		{"storage", "FIELDSCHED_STORAGE_TYPE", "mysql", "unknown FIELDSCHED_STORAGE_TYPE"},
		{"duration", "FIELDSCHED_SHUTDOWN_TIMEOUT", "soon", "FIELDSCHED_SHUTDOWN_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := LoadServerConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCalendarConfig_CapacityFallsBackToDefault(t *testing.T) {
	cfg := CalendarConfig{TimeZone: "UTC", CellCapacity: 0}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.CellCapacity)
}

func TestLoadCLIConfig(t *testing.T) {
	t.Setenv("FIELDSCHED_STORAGE_TYPE", "fs")
	t.Setenv("FIELDSCHED_FS_DIR", t.TempDir())

	cfg, err := LoadCLIConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageFS, cfg.Storage.Type)
}
