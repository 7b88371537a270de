// Package config reads runtime settings from TALENTFLOW_* environment
// variables.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/roach88/talentflow/internal/service"
	"github.com/roach88/talentflow/internal/simulator"
)

const prefix = "talentflow"

type Config struct {
	DB       string `envconfig:"DB" default:"talentflow.db" validate:"required"`
	Seed     uint64 `envconfig:"SEED" default:"0"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	ErrorRate        float64       `envconfig:"ERROR_RATE" default:"0.1" validate:"gte=0,lte=1"`
	UpdateErrorRate  float64       `envconfig:"UPDATE_ERROR_RATE" default:"0.05" validate:"gte=0,lte=1"`
	ReorderErrorRate float64       `envconfig:"REORDER_ERROR_RATE" default:"0.2" validate:"gte=0,lte=1"`
	MinLatency       time.Duration `envconfig:"MIN_LATENCY" default:"200ms" validate:"gte=0"`
	MaxLatency       time.Duration `envconfig:"MAX_LATENCY" default:"1200ms" validate:"gtefield=MinLatency"`

	MetricsFile string `envconfig:"METRICS_FILE" default:""`
}

// New reads the environment and validates the result.
func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process(prefix, cfg); err != nil {
		return nil, errors.Wrap(err, "reading configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges after flags have been applied on top of the
// environment.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// ErrorRates returns the per-operation failure probabilities.
func (c *Config) ErrorRates() service.ErrorRates {
	return service.ErrorRates{
		Default: c.ErrorRate,
		Update:  c.UpdateErrorRate,
		Reorder: c.ReorderErrorRate,
	}
}

// SimulatorOptions returns the default simulated call options.
func (c *Config) SimulatorOptions() simulator.Options {
	return simulator.Options{
		ErrorRate:  c.ErrorRate,
		MinLatency: c.MinLatency,
		MaxLatency: c.MaxLatency,
	}
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() zap.AtomicLevel {
	lvl, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return lvl
}
