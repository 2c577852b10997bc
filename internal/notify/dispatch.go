package notify

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/booking-notifier/internal/metrics"
	"github.com/albapepper/booking-notifier/internal/push"
	"github.com/albapepper/booking-notifier/internal/store"
)

// Dispatcher sends pushes to single users and to the admin group.
type Dispatcher struct {
	users       store.Users
	tokens      *Tokens
	sender      push.Sender
	concurrency int
	logger      *slog.Logger
}

// NewDispatcher builds a dispatcher. concurrency bounds the admin fan-out;
// values below 1 mean unbounded.
func NewDispatcher(users store.Users, sender push.Sender, concurrency int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		users:       users,
		tokens:      NewTokens(users, logger),
		sender:      sender,
		concurrency: concurrency,
		logger:      logger,
	}
}

// SendToUser pushes one message to userID. Every failure is logged here and
// reported only as delivered=false.
func (d *Dispatcher) SendToUser(ctx context.Context, userID, title, body string, data map[string]string) (delivered bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Push send panicked", "user_id", userID, "panic", fmt.Sprint(r))
			metrics.PushSent.WithLabelValues("failed").Inc()
			delivered = false
		}
	}()

	token, ok := d.tokens.Resolve(ctx, userID)
	if !ok {
		metrics.PushSent.WithLabelValues("no_token").Inc()
		return false
	}

	id, err := d.sender.Send(ctx, push.Message{
		Token: token,
		Title: title,
		Body:  body,
		Data:  data,
		Hints: push.DefaultHints(),
	})
	if err != nil {
		d.logger.Warn("Push send failed", "user_id", userID, "title", title, "error", err)
		if d.tokens.Invalidate(ctx, userID, err) {
			metrics.PushSent.WithLabelValues("invalid_token").Inc()
		} else {
			metrics.PushSent.WithLabelValues("failed").Inc()
		}
		return false
	}

	metrics.PushSent.WithLabelValues("sent").Inc()
	d.logger.Debug("Push sent", "user_id", userID, "message_id", id)
	return true
}

// SendToAdmins pushes the message to every admin concurrently and waits for
// all of them. One admin's failure never stops the others. Returns the ids
// of the admins that were targeted.
func (d *Dispatcher) SendToAdmins(ctx context.Context, title, body string, data map[string]string) []string {
	admins, err := d.users.ListAdmins(ctx)
	if err != nil {
		d.logger.Warn("Failed to list admins", "error", err)
		return nil
	}
	if len(admins) == 0 {
		d.logger.Info("No admin users found")
		return nil
	}

	ids := make([]string, len(admins))
	var g errgroup.Group
	if d.concurrency > 0 {
		g.SetLimit(d.concurrency)
	}
	for i, a := range admins {
		ids[i] = a.ID
		g.Go(func() error {
			d.SendToUser(ctx, a.ID, title, body, data)
			return nil
		})
	}
	_ = g.Wait()

	d.logger.Info("Admin broadcast dispatched", "title", title, "admins", len(ids))
	return ids
}
