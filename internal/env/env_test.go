package env

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Host    string        `env:"FIELDSCHED_TEST_HOST" default:"localhost"`
	Port    int           `env:"FIELDSCHED_TEST_PORT" default:"8080"`
	Enabled bool          `env:"FIELDSCHED_TEST_ENABLED" default:"true"`
	Timeout time.Duration `env:"FIELDSCHED_TEST_TIMEOUT" default:"5s"`
	Ratio   float64       `env:"FIELDSCHED_TEST_RATIO" default:"0.5"`
	Tags    []string      `env:"FIELDSCHED_TEST_TAGS" default:"a,b"`
	NoDef   string        `env:"FIELDSCHED_TEST_NO_DEF"`
	skipped string        `env:"FIELDSCHED_TEST_SKIPPED"`
}

func TestLoad(t *testing.T) {
	t.Setenv("FIELDSCHED_TEST_HOST", "example.com")
	t.Setenv("FIELDSCHED_TEST_PORT", "9090")
	t.Setenv("FIELDSCHED_TEST_ENABLED", "false")
	t.Setenv("FIELDSCHED_TEST_TIMEOUT", "1m30s")
	t.Setenv("FIELDSCHED_TEST_RATIO", "0.25")
	t.Setenv("FIELDSCHED_TEST_TAGS", " montaż , ,przegląd")
	t.Setenv("FIELDSCHED_TEST_NO_DEF", "foo")
	t.Setenv("FIELDSCHED_TEST_SKIPPED", "bar")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "example.com", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, 0.25, cfg.Ratio)
	assert.Equal(t, []string{"montaż", "przegląd"}, cfg.Tags)
	assert.Equal(t, "foo", cfg.NoDef)
	assert.Empty(t, cfg.skipped)
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 0.5, cfg.Ratio)
	assert.Equal(t, []string{"a", "b"}, cfg.Tags)
	assert.Empty(t, cfg.NoDef)
}

func TestLoad_EmptyStringRespected(t *testing.T) {
	t.Setenv("FIELDSCHED_TEST_HOST", "")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_InvalidValue(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{"int", "FIELDSCHED_TEST_PORT", "eighty", "Port"},
		{"empty int", "FIELDSCHED_TEST_PORT", "", "Port"},
		{"bool", "FIELDSCHED_TEST_ENABLED", "maybe", "Enabled"},
		{"duration", "FIELDSCHED_TEST_TIMEOUT", "5 minutes", "Timeout"},
		{"float", "FIELDSCHED_TEST_RATIO", "half", "Ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			var cfg testConfig
			err := Load(&cfg)
			require.Error(t, err)

			var invalid ErrInvalidValue
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
			assert.Equal(t, tt.key, invalid.EnvVar)
		})
	}
}

type nested struct {
	Inner innerConfig
}

type innerConfig struct {
	Mode string `env:"FIELDSCHED_TEST_MODE" default:"month"`
}

var errBadMode = errors.New("bad mode")

func (c *innerConfig) Validate() error {
	if c.Mode == "decade" {
		return errBadMode
	}
	return nil
}

func TestLoad_NestedValidation(t *testing.T) {
	var ok nested
	require.NoError(t, Load(&ok))
	assert.Equal(t, "month", ok.Inner.Mode)

	t.Setenv("FIELDSCHED_TEST_MODE", "decade")
	var bad nested
	require.ErrorIs(t, Load(&bad), errBadMode)
}

func TestLoad_NotStructPointer(t *testing.T) {
	var cfg testConfig
	err := Load(cfg)

	var target ErrNotStructPointer
	require.True(t, errors.As(err, &target))
}

func TestLoad_UnsupportedType(t *testing.T) {
	type badConfig struct {
		Ports []int `env:"FIELDSCHED_TEST_PORTS" default:"1,2"`
	}

	var cfg badConfig
	err := Load(&cfg)

	var unsupported ErrUnsupportedType
	require.True(t, errors.As(err, &unsupported))
}

type level int

func (l *level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "low":
		*l = 1
	case "high":
		*l = 2
	default:
		return errors.New("unknown level")
	}
	return nil
}

func TestLoadFrom_TextUnmarshaler(t *testing.T) {
	type cfg struct {
		Level level `env:"LEVEL" default:"low"`
	}

	var c cfg
	require.NoError(t, LoadFrom(&c, func(string) (string, bool) { return "", false }))
	assert.Equal(t, level(1), c.Level)

	require.NoError(t, LoadFrom(&c, func(string) (string, bool) { return "high", true }))
	assert.Equal(t, level(2), c.Level)

	err := LoadFrom(&c, func(string) (string, bool) { return "medium", true })
	var invalid ErrInvalidValue
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "LEVEL", invalid.EnvVar)
}

func TestLoadFrom_Lookup(t *testing.T) {
	vars := map[string]string{"FIELDSCHED_TEST_PORT": "7070", "FIELDSCHED_TEST_TAGS": ""}
	lookup := func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}

	var cfg testConfig
	require.NoError(t, LoadFrom(&cfg, lookup))
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Empty(t, cfg.Tags)
	assert.NotNil(t, cfg.Tags)
}

func TestLoad_IntOverflow(t *testing.T) {
	type small struct {
		N int8 `env:"FIELDSCHED_TEST_N"`
	}
	t.Setenv("FIELDSCHED_TEST_N", "300")

	var cfg small
	var invalid ErrInvalidValue
	require.ErrorAs(t, Load(&cfg), &invalid)
}
