package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/booking-notifier/internal/reminder"
	"github.com/albapepper/booking-notifier/internal/store"
)

// RunReminderScan runs one reminder scan as of now. Shared by the ticker,
// the API trigger and the CLI.
func RunReminderScan(ctx context.Context, scanner *reminder.Scanner, now time.Time, logger *slog.Logger) reminder.Result {
	from, to := scanner.Window(now)
	logger.Info("Running booking reminder scan", "from", from.Format(time.RFC3339), "to", to.Format(time.RFC3339))

	result := scanner.Scan(ctx, now)
	for _, e := range result.Errors {
		logger.Warn("Reminder scan error", "error", e)
	}
	return result
}

// PurgeNotifications deletes read notifications older than retentionDays.
// Unread records are kept regardless of age.
func PurgeNotifications(ctx context.Context, notifications store.Notifications, retentionDays int, now time.Time, logger *slog.Logger) int64 {
	cutoff := now.AddDate(0, 0, -retentionDays)
	start := time.Now()
	n, err := notifications.PurgeReadNotifications(ctx, cutoff)
	dur := time.Since(start).Round(time.Millisecond)

	if err != nil {
		logger.Warn("Cleanup: failed to purge old notifications", "duration", dur, "error", err)
		return 0
	}
	if n > 0 {
		logger.Info("Cleanup: purged old notifications", "count", n, "cutoff", cutoff.Format(time.DateOnly), "duration", dur)
	}
	return n
}
