package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ignite")
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.NotEmpty(t, cfg.JWTSecret, "development gets a fallback secret")
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("APP_TIMEZONE", "UTC")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ignite")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_TIMEZONE", "UTC")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ignite")
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_TIMEZONE", "UTC")

	t.Run("duration", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "CACHE_TTL")
	})

	t.Run("timezone", func(t *testing.T) {
		t.Setenv("APP_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.ErrorContains(t, err, "APP_TIMEZONE")
	})

	t.Run("rate limit", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "RATE_LIMIT_PER_MINUTE")
	})
}
