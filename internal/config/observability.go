package config

// ObservabilityConfig holds observability configuration.
// Exporter endpoints follow the standard OTEL_EXPORTER_OTLP_* variables.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"FIELDSCHED_OTEL_ENABLED" default:"false"`
	ServiceName string `env:"OTEL_SERVICE_NAME" default:"fieldsched"`
	LogLevel    string `env:"FIELDSCHED_LOG_LEVEL" default:"info"`
	LogFormat   string `env:"FIELDSCHED_LOG_FORMAT" default:"json"`
}
