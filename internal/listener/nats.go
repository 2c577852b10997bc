package listener

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// StartNATS subscribes to subject and dispatches each message as a change
// envelope. The client reconnects on its own. Blocks until ctx is cancelled,
// then drains in-flight messages before returning.
func StartNATS(ctx context.Context, url, subject string, router Dispatcher, logger *slog.Logger) error {
	closed := make(chan struct{})
	nc, err := nats.Connect(url,
		nats.Name("booking-notifier"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(reconnectBackoff),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
		nats.ClosedHandler(func(*nats.Conn) { close(closed) }),
	)
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}

	// Handlers keep running while the subscription drains after shutdown.
	hctx := context.WithoutCancel(ctx)
	if _, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		Handle(hctx, router, msg.Data, "nats", logger)
	}); err != nil {
		nc.Close()
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	logger.Info("NATS change subscriber started", "subject", subject)

	<-ctx.Done()

	if err := nc.Drain(); err != nil {
		logger.Warn("NATS drain failed", "error", err)
		nc.Close()
	}
	<-closed
	logger.Info("NATS change subscriber stopped")
	return nil
}
