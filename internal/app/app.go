// Package app assembles the notification services on top of a store. Both
// binaries build their object graph through Build.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/booking-notifier/internal/config"
	"github.com/albapepper/booking-notifier/internal/dedupe"
	"github.com/albapepper/booking-notifier/internal/events"
	"github.com/albapepper/booking-notifier/internal/notify"
	"github.com/albapepper/booking-notifier/internal/push"
	"github.com/albapepper/booking-notifier/internal/reminder"
	"github.com/albapepper/booking-notifier/internal/store"
)

// Services is the wired object graph.
type Services struct {
	Store      store.Store
	Dispatcher *notify.Dispatcher
	Inbox      *notify.Inbox
	Router     *events.Router
	Scanner    *reminder.Scanner

	closers []func() error
}

// Options override the externally backed parts of the graph. Zero values
// are built from cfg.
type Options struct {
	Sender push.Sender
	Dedupe events.Deduper
}

// Build wires push delivery, dedupe, the event router and the reminder
// scanner around st.
func Build(ctx context.Context, cfg *config.Config, st store.Store, opts Options, logger *slog.Logger) (*Services, error) {
	s := &Services{Store: st}

	sender := opts.Sender
	if sender == nil {
		var err error
		sender, err = push.New(ctx, cfg.FCMCredentialsFile, logger)
		if err != nil {
			return nil, fmt.Errorf("push sender: %w", err)
		}
	}

	dd := opts.Dedupe
	if dd == nil {
		if cfg.RedisURL != "" {
			r, err := dedupe.NewRedis(ctx, cfg.RedisURL, cfg.EventDedupeTTL, logger)
			if err != nil {
				return nil, fmt.Errorf("event dedupe: %w", err)
			}
			s.closers = append(s.closers, r.Close)
			dd = r
			logger.Info("Event dedupe enabled", "ttl", cfg.EventDedupeTTL)
		} else {
			dd = dedupe.Nop{}
			logger.Info("Event dedupe disabled (no REDIS_URL)")
		}
	}

	s.Dispatcher = notify.NewDispatcher(st, sender, cfg.FanOutConcurrency, logger)
	s.Inbox = notify.NewInbox(st, cfg.FanOutConcurrency, logger)

	handlers := events.NewHandlers(st, s.Dispatcher, s.Inbox, cfg.Location(), logger)
	s.Router = events.NewRouter(handlers, dd, logger)

	s.Scanner = reminder.NewScanner(st, s.Dispatcher, s.Inbox, reminder.Config{
		LeadMin:  cfg.ReminderLeadMin,
		LeadMax:  cfg.ReminderLeadMax,
		Workers:  cfg.ReminderWorkers,
		Location: cfg.Location(),
	}, logger)

	return s, nil
}

// Close releases external clients opened by Build.
func (s *Services) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
