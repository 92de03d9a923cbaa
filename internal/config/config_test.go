package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/irt"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, irt.DefaultBounds, cfg.Bounds)
	assert.Greater(t, cfg.Workers, 0)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("CATSIM_LOG_MODE", "prod")
	t.Setenv("CATSIM_THETA_MIN", "-3")
	t.Setenv("CATSIM_THETA_MAX", " 3.5 ")
	t.Setenv("CATSIM_MAX_ITERATIONS", "250")
	t.Setenv("CATSIM_GRAD_TOL", "1e-8")
	t.Setenv("CATSIM_WORKERS", "2")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.LogMode)
	assert.Equal(t, irt.Bounds{Min: -3, Max: 3.5}, cfg.Bounds)
	assert.Equal(t, 250, cfg.MaxIterations)
	assert.Equal(t, 1e-8, cfg.GradTol)
	assert.Equal(t, 2, cfg.Workers)
	require.NoError(t, cfg.Validate())
}

func TestConfigFromEnv_Malformed(t *testing.T) {
	t.Setenv("CATSIM_MAX_ITERATIONS", "lots")

	_, err := ConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATSIM_MAX_ITERATIONS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mut     func(*Config)
		wantErr string
	}{
		{"unknown log mode", func(c *Config) { c.LogMode = "loud" }, "unknown log mode"},
		{"inverted bounds", func(c *Config) { c.Bounds = irt.Bounds{Min: 1, Max: -1} }, "theta bounds"},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }, "CATSIM_MAX_ITERATIONS"},
		{"negative tolerance", func(c *Config) { c.GradTol = -1 }, "CATSIM_GRAD_TOL"},
		{"no workers", func(c *Config) { c.Workers = 0 }, "CATSIM_WORKERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
