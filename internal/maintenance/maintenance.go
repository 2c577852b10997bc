// Package maintenance runs periodic background tasks as Go tickers.
// The hourly reminder scan and notification retention cleanup both live here
// so no external scheduler is needed; the API process is already long-lived
// for LISTEN/NOTIFY.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/booking-notifier/internal/reminder"
	"github.com/albapepper/booking-notifier/internal/store"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	ReminderInterval time.Duration // Booking reminder scan
	CleanupInterval  time.Duration // Purge of old read notifications
	RetentionDays    int
	RunOnStart       bool // Scan once immediately instead of waiting a full interval
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		ReminderInterval: 1 * time.Hour,
		CleanupInterval:  6 * time.Hour,
		RetentionDays:    90,
		RunOnStart:       true,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, scanner *reminder.Scanner, notifications store.Notifications, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"reminders", cfg.ReminderInterval,
		"cleanup", cfg.CleanupInterval,
		"retention_days", cfg.RetentionDays)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	// Reminders: one-time notice for bookings about 24 hours out
	if cfg.ReminderInterval > 0 {
		t := time.NewTicker(cfg.ReminderInterval)
		tickers = append(tickers, t)
		scan := func() { RunReminderScan(ctx, scanner, time.Now(), logger) }
		if cfg.RunOnStart {
			go scan()
		}
		go runLoop(ctx, t.C, scan)
	}

	// Cleanup: remove read notifications past the retention period
	if cfg.CleanupInterval > 0 && cfg.RetentionDays > 0 {
		t := time.NewTicker(cfg.CleanupInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { PurgeNotifications(ctx, notifications, cfg.RetentionDays, time.Now(), logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}
