package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/booking-notifier/internal/config"
	"github.com/albapepper/booking-notifier/internal/domain"
	"github.com/albapepper/booking-notifier/internal/events"
	"github.com/albapepper/booking-notifier/internal/store/memory"
)

func TestBuild_DefaultsWithoutExternalServices(t *testing.T) {
	cfg := &config.Config{
		Timezone:          "UTC",
		ReminderLeadMin:   23 * time.Hour,
		ReminderLeadMax:   25 * time.Hour,
		ReminderWorkers:   1,
		FanOutConcurrency: 1,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := Build(context.Background(), cfg, memory.New(), Options{}, logger)
	require.NoError(t, err)
	require.NotNil(t, s.Router)
	require.NotNil(t, s.Scanner)
	assert.NoError(t, s.Close())

	// Without REDIS_URL every event id is treated as new.
	change, err := events.NewOrderChange("evt-1", domain.Order{ID: "o1", TotalAmount: 42, Status: domain.OrderCreated})
	require.NoError(t, err)
	for range 2 {
		handled, err := s.Router.Dispatch(context.Background(), change)
		require.NoError(t, err)
		assert.True(t, handled)
	}
}

func TestBuild_RejectsUnreachableRedis(t *testing.T) {
	cfg := &config.Config{Timezone: "UTC", RedisURL: "redis://127.0.0.1:1/0", EventDedupeTTL: time.Hour}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Build(ctx, cfg, memory.New(), Options{}, logger)
	assert.ErrorContains(t, err, "event dedupe")
}
