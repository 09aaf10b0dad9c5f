package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Equal(t, 120*time.Hour, cfg.Session.TTL)
	assert.Equal(t, int64(500000), cfg.Translation.ProviderLimit)
	assert.Equal(t, 5, cfg.Contact.RateLimit)
	assert.Equal(t, time.Hour, cfg.Contact.RateWindow)
	assert.Equal(t, 30, cfg.Trash.RetentionDays)
	assert.Equal(t, "pawshome:tasks", cfg.Queue.Stream)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PAWSHOME_ENVIRONMENT", "production")
	t.Setenv("PAWSHOME_HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}
