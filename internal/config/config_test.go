package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "slog", cfg.Log.Backend)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "stdout", cfg.Tracing.Exporter)
	assert.Equal(t, "prepoint", cfg.Tracing.ServiceName)
	assert.InDelta(t, 1.0, cfg.Tracing.SampleRatio, 0)
	assert.False(t, cfg.Metrics.Dump)
	assert.Equal(t, 2, cfg.Pointing.SecondsPlaces)
	assert.InDelta(t, 1.0, cfg.Pointing.RotationToleranceDeg, 0)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prepoint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  backend: zap
pointing:
  seconds_places: 1
  rotation_tolerance_deg: 0.5
metrics:
  dump: true
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "zap", cfg.Log.Backend)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep defaults")
	assert.Equal(t, 1, cfg.Pointing.SecondsPlaces)
	assert.InDelta(t, 0.5, cfg.Pointing.RotationToleranceDeg, 1e-12)
	assert.True(t, cfg.Metrics.Dump)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prepoint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))
	t.Setenv("PREPOINT_LOG_LEVEL", "error")
	t.Setenv("PREPOINT_POINTING_SECONDS_PLACES", "0")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 0, cfg.Pointing.SecondsPlaces)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"level", "PREPOINT_LOG_LEVEL", "verbose"},
		{"backend", "PREPOINT_LOG_BACKEND", "logrus"},
		{"exporter", "PREPOINT_TRACING_EXPORTER", "otlp"},
		{"ratio", "PREPOINT_TRACING_SAMPLE_RATIO", "1.5"},
		{"places", "PREPOINT_POINTING_SECONDS_PLACES", "9"},
		{"tolerance", "PREPOINT_POINTING_ROTATION_TOLERANCE_DEG", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.env, tt.val)
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := &Config{
		Log:     LogConfig{Level: "warn", Format: "json", Backend: "zap"},
		Tracing: TracingConfig{Enabled: true, Exporter: "stdout", ServiceName: "svc", SampleRatio: 0.25},
	}
	lc := cfg.Logging()
	assert.Equal(t, "warn", lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, "zap", lc.Backend)

	tc := cfg.Tracer()
	assert.True(t, tc.Enabled)
	assert.Equal(t, "svc", tc.ServiceName)
	assert.InDelta(t, 0.25, tc.SampleRatio, 1e-12)
}

// chdir changes the working directory to dir for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory %s: %v", old, err)
		}
	})
}
