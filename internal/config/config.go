// Package config loads prepoint settings from an optional YAML file and
// PREPOINT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/signalsfoundry/prepoint/internal/logging"
	"github.com/signalsfoundry/prepoint/internal/observability"
)

// EnvPrefix prefixes every environment override: log.level -> PREPOINT_LOG_LEVEL.
const EnvPrefix = "PREPOINT"

// Config holds all runtime settings.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Pointing PointingConfig `mapstructure:"pointing"`
}

// LogConfig selects the logging backend.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`  // json or text
	Backend string `mapstructure:"backend"` // slog or zap
}

// TracingConfig controls span export.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter"` // stdout or none
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// MetricsConfig controls the end-of-run metrics dump.
type MetricsConfig struct {
	Dump bool `mapstructure:"dump"`
}

// PointingConfig tunes readback formatting and rotation advice.
type PointingConfig struct {
	SecondsPlaces        int     `mapstructure:"seconds_places"`
	RotationToleranceDeg float64 `mapstructure:"rotation_tolerance_deg"`
}

// Load reads configuration from path, or from prepoint.yaml in the working
// directory when path is empty, then applies environment overrides.
// A missing default file is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("prepoint")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks for settings the rest of the program cannot honour.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Backend) {
	case "slog", "zap":
	default:
		return fmt.Errorf("log.backend %q is not one of slog, zap", c.Log.Backend)
	}
	switch strings.ToLower(c.Tracing.Exporter) {
	case "stdout", "none":
	default:
		return fmt.Errorf("tracing.exporter %q is not one of stdout, none", c.Tracing.Exporter)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio %v must be within [0, 1]", c.Tracing.SampleRatio)
	}
	if c.Pointing.SecondsPlaces < 0 || c.Pointing.SecondsPlaces > 6 {
		return fmt.Errorf("pointing.seconds_places %d must be within [0, 6]", c.Pointing.SecondsPlaces)
	}
	if c.Pointing.RotationToleranceDeg < 0 {
		return fmt.Errorf("pointing.rotation_tolerance_deg must not be negative")
	}
	return nil
}

// Logging converts the log section into a logger configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:   c.Log.Level,
		Format:  c.Log.Format,
		Backend: c.Log.Backend,
	}
}

// Tracer converts the tracing section into a tracer configuration.
func (c *Config) Tracer() observability.TracingConfig {
	return observability.TracingConfig{
		Enabled:     c.Tracing.Enabled,
		ServiceName: c.Tracing.ServiceName,
		Exporter:    c.Tracing.Exporter,
		SampleRatio: c.Tracing.SampleRatio,
	}
}

func setDefaults(v *viper.Viper) {
	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.backend", "slog")

	// Tracing
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "stdout")
	v.SetDefault("tracing.service_name", "prepoint")
	v.SetDefault("tracing.sample_ratio", 1.0)

	// Metrics
	v.SetDefault("metrics.dump", false)

	// Pointing
	v.SetDefault("pointing.seconds_places", 2)
	v.SetDefault("pointing.rotation_tolerance_deg", 1.0)
}
