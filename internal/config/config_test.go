package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "")
	t.Setenv("API_RATE_LIMIT", "")
	t.Setenv("MUTATION_RATE_WINDOW_SECONDS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "postgres://localhost/tasks", cfg.DatabaseURL)
	assert.Equal(t, 120, cfg.APIRateLimit)
	assert.Equal(t, time.Minute, cfg.MutationRateWindow)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("API_RATE_LIMIT", "5")
	t.Setenv("API_RATE_WINDOW_SECONDS", "30")
	t.Setenv("MUTATION_RATE_LIMIT", "not-a-number")
	t.Setenv("LOG_JSON", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, 5, cfg.APIRateLimit)
	assert.Equal(t, 30*time.Second, cfg.APIRateWindow)
	assert.Equal(t, 60, cfg.MutationRateLimit)
	assert.True(t, cfg.LogJSON)
}
