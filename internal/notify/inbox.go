package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/booking-notifier/internal/domain"
	"github.com/albapepper/booking-notifier/internal/metrics"
	"github.com/albapepper/booking-notifier/internal/store"
)

// Inbox appends in-app notification records. It has no idempotency key:
// every call inserts a row.
type Inbox struct {
	notifications store.Notifications
	concurrency   int
	logger        *slog.Logger
}

func NewInbox(notifications store.Notifications, concurrency int, logger *slog.Logger) *Inbox {
	return &Inbox{notifications: notifications, concurrency: concurrency, logger: logger}
}

// Write inserts one unread record. A panic in the store is recovered and
// returned as an error.
func (i *Inbox) Write(ctx context.Context, n domain.Notification) (saved domain.Notification, err error) {
	defer func() {
		if p := recover(); p != nil {
			i.logger.Error("In-app write panicked", "user_id", n.UserID, "panic", fmt.Sprint(p))
			metrics.InAppWritten.WithLabelValues(string(n.Category), "failed").Inc()
			saved, err = domain.Notification{}, fmt.Errorf("in-app write panicked: %v", p)
		}
	}()

	n.IsRead = false
	saved, err = i.notifications.InsertNotification(ctx, n)
	if err != nil {
		metrics.InAppWritten.WithLabelValues(string(n.Category), "failed").Inc()
		return domain.Notification{}, err
	}
	metrics.InAppWritten.WithLabelValues(string(n.Category), "written").Inc()
	return saved, nil
}

// WriteEach writes one copy of n per recipient, concurrently. Failures are
// logged per recipient. Returns how many records were written.
func (i *Inbox) WriteEach(ctx context.Context, userIDs []string, n domain.Notification) int {
	var written atomic.Int64
	var g errgroup.Group
	if i.concurrency > 0 {
		g.SetLimit(i.concurrency)
	}
	for _, id := range userIDs {
		g.Go(func() error {
			rec := n
			rec.UserID = id
			if _, err := i.Write(ctx, rec); err != nil {
				i.logger.Warn("In-app write failed", "user_id", id, "category", n.Category, "error", err)
				return nil
			}
			written.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(written.Load())
}
