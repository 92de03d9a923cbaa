// Package config holds process-level settings for catsim, read from the
// environment and overridden by command-line flags.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/irt"
)

// Config holds catsim settings that apply to every run.
type Config struct {
	// LogMode selects the logger: "dev", "prod" or "quiet".
	LogMode string

	// Bounds is the default theta interval for runs that do not set one.
	Bounds irt.Bounds

	// MaxIterations caps optimiser iterations per ability estimate.
	MaxIterations int

	// GradTol is the optimiser's projected-gradient tolerance.
	GradTol float64

	// Workers limits concurrent runs in a batch.
	Workers int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	return Config{
		LogMode:       "quiet",
		Bounds:        irt.DefaultBounds,
		MaxIterations: irt.DefaultMaxIterations,
		GradTol:       irt.DefaultGradTol,
		Workers:       workers,
	}
}

// ConfigFromEnv builds a Config from CATSIM_* environment variables,
// falling back to defaults for unset values. Malformed values are
// reported as errors rather than silently ignored.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if m := os.Getenv("CATSIM_LOG_MODE"); m != "" {
		cfg.LogMode = m
	}

	var err error
	if cfg.Bounds.Min, err = envFloat("CATSIM_THETA_MIN", cfg.Bounds.Min); err != nil {
		return cfg, err
	}
	if cfg.Bounds.Max, err = envFloat("CATSIM_THETA_MAX", cfg.Bounds.Max); err != nil {
		return cfg, err
	}
	if cfg.MaxIterations, err = envInt("CATSIM_MAX_ITERATIONS", cfg.MaxIterations); err != nil {
		return cfg, err
	}
	if cfg.GradTol, err = envFloat("CATSIM_GRAD_TOL", cfg.GradTol); err != nil {
		return cfg, err
	}
	if cfg.Workers, err = envInt("CATSIM_WORKERS", cfg.Workers); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogMode) {
	case "dev", "development", "prod", "production", "quiet":
	default:
		return fmt.Errorf("unknown log mode: %q", c.LogMode)
	}
	if err := c.Bounds.Validate(); err != nil {
		return fmt.Errorf("theta bounds: %w", err)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("CATSIM_MAX_ITERATIONS must be positive, got %d", c.MaxIterations)
	}
	if c.GradTol <= 0 {
		return fmt.Errorf("CATSIM_GRAD_TOL must be positive, got %g", c.GradTol)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("CATSIM_WORKERS must be positive, got %d", c.Workers)
	}
	return nil
}

func envFloat(name string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

func envInt(name string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", name, err)
	}
	return i, nil
}
