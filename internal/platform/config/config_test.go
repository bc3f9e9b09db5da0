package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		DatabaseURL:        "postgres://localhost/payroll",
		MaxBodyBytes:       1048576,
		MaxUploadBytes:     10485760,
		RateLimitPerMinute: 60,
		StandardShiftHours: 10,
		ShutdownTimeout:    5 * time.Second,
	}
}

func TestLoadReadsShiftHours(t *testing.T) {
	t.Setenv("STANDARD_SHIFT_HOURS", "8.5")
	t.Setenv("DATABASE_URL", "postgres://example/db")

	cfg := Load()
	assert.Equal(t, 8.5, cfg.StandardShiftHours)
	assert.Equal(t, "postgres://example/db", cfg.DatabaseURL)
}

func TestLoadFallsBackOnGarbage(t *testing.T) {
	t.Setenv("STANDARD_SHIFT_HOURS", "ten")
	t.Setenv("LOG_JSON", "maybe")

	cfg := Load()
	assert.Equal(t, float64(10), cfg.StandardShiftHours)
	assert.False(t, cfg.LogJSON)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.DatabaseURL = " "
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.StandardShiftHours = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.MaxUploadBytes = 1024
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.RateLimitPerMinute = 0
	assert.Error(t, cfg.Validate())
}
