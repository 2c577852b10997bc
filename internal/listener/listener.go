// Package listener feeds record changes into the event router. The Postgres
// source holds a dedicated pgx connection (not from the pool) listening on
// the channel the notify_record_changed trigger publishes to. The NATS
// source subscribes to a subject carrying the same JSON envelope.
package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/booking-notifier/internal/events"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// Dispatcher is satisfied by events.Router.
type Dispatcher interface {
	Dispatch(ctx context.Context, c events.Change) (bool, error)
}

// Start opens a dedicated connection and listens on channel. It reconnects
// automatically on connection loss. Blocks until ctx is cancelled. Intended
// to be called with `go`.
func Start(ctx context.Context, dbURL, channel string, router Dispatcher, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, channel, router, logger)
		if ctx.Err() != nil {
			logger.Info("Change listener stopped (context cancelled)")
			return
		}

		logger.Error("Change listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL, channel string, router Dispatcher, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize())
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("Change listener connected", "channel", channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		// Process asynchronously to avoid blocking the listener
		go Handle(ctx, router, []byte(notification.Payload), "postgres", logger)
	}
}

// Handle decodes one envelope and dispatches it. Bad payloads are logged and
// dropped; redelivering them would fail the same way.
func Handle(ctx context.Context, router Dispatcher, payload []byte, source string, logger *slog.Logger) {
	var change events.Change
	if err := json.Unmarshal(payload, &change); err != nil {
		logger.Warn("Failed to parse change event",
			"source", source, "payload", string(payload), "error", err)
		return
	}

	handled, err := router.Dispatch(ctx, change)
	switch {
	case errors.Is(err, events.ErrUnknownCollection):
		logger.Debug("Ignoring change for unwatched collection",
			"source", source, "collection", change.Collection)
	case err != nil:
		logger.Warn("Rejected change event",
			"source", source, "event_id", change.EventID, "error", err)
	case handled:
		logger.Debug("Change event handled",
			"source", source, "event_id", change.EventID, "collection", change.Collection, "id", change.ID)
	}
}
