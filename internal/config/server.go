package config

import (
	"fmt"
	"time"

	"github.com/rezkam/fieldsched/internal/env"
)

// ServerConfig holds all configuration for the serve command.
type ServerConfig struct {
	Storage         StorageConfig
	HTTP            HTTPConfig
	Calendar        CalendarConfig
	Refresh         RefreshConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"FIELDSCHED_SHUTDOWN_TIMEOUT" default:"10s"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"FIELDSCHED_HTTP_HOST" default:"0.0.0.0"`
	Port              string        `env:"FIELDSCHED_HTTP_PORT" default:"8080"`
	ReadTimeout       time.Duration `env:"FIELDSCHED_HTTP_READ_TIMEOUT" default:"5s"`
	WriteTimeout      time.Duration `env:"FIELDSCHED_HTTP_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout       time.Duration `env:"FIELDSCHED_HTTP_IDLE_TIMEOUT" default:"120s"`
	ReadHeaderTimeout time.Duration `env:"FIELDSCHED_HTTP_READ_HEADER_TIMEOUT" default:"2s"`
	MaxHeaderBytes    int           `env:"FIELDSCHED_HTTP_MAX_HEADER_BYTES" default:"1048576"`
	MaxBodyBytes      int64         `env:"FIELDSCHED_HTTP_MAX_BODY_BYTES" default:"65536"`
}

// Addr returns host:port.
func (c HTTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// RefreshConfig controls the background snapshot refresh.
type RefreshConfig struct {
	Schedule string        `env:"FIELDSCHED_REFRESH_SCHEDULE" default:"@every 1m"`
	Timeout  time.Duration `env:"FIELDSCHED_REFRESH_TIMEOUT" default:"30s"`
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}

// CLIConfig holds configuration for the one-shot commands.
type CLIConfig struct {
	Storage       StorageConfig
	Calendar      CalendarConfig
	Observability ObservabilityConfig
}

// LoadCLIConfig loads and validates CLI configuration from environment.
func LoadCLIConfig() (*CLIConfig, error) {
	cfg := &CLIConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}
