package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/bookings")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "record_changed", cfg.ListenChannel)
	assert.Equal(t, time.Hour, cfg.ReminderInterval)
	assert.Equal(t, 23*time.Hour, cfg.ReminderLeadMin)
	assert.Equal(t, 25*time.Hour, cfg.ReminderLeadMax)
	assert.Equal(t, "America/New_York", cfg.Location().String())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/bookings")
	t.Setenv("REMINDER_INTERVAL", "30m")
	t.Setenv("EVENT_DEDUPE_TTL", "3600")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("APP_TIMEZONE", "Europe/London")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.ReminderInterval)
	assert.Equal(t, time.Hour, cfg.EventDedupeTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "Europe/London", cfg.Location().String())
}

func TestLoad_RejectsInvertedWindow(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/bookings")
	t.Setenv("REMINDER_LEAD_MIN", "25h")
	t.Setenv("REMINDER_LEAD_MAX", "23h")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/bookings")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}
