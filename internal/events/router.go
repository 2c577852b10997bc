package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/booking-notifier/internal/config"
	"github.com/albapepper/booking-notifier/internal/domain"
	"github.com/albapepper/booking-notifier/internal/metrics"
)

// Deduper claims event ids before they are handled. Implemented by
// dedupe.Redis and dedupe.Nop.
type Deduper interface {
	// Claim reports false when the id was already claimed.
	Claim(ctx context.Context, eventID string) bool
	Release(ctx context.Context, eventID string)
}

// Router decodes changes and hands them to the matching handler.
type Router struct {
	handlers *Handlers
	dedupe   Deduper
	logger   *slog.Logger
}

func NewRouter(handlers *Handlers, dedupe Deduper, logger *slog.Logger) *Router {
	return &Router{handlers: handlers, dedupe: dedupe, logger: logger}
}

// Dispatch validates c and runs its handler. Only envelope and snapshot
// problems are returned; handler failures are logged inside the handler.
// Returns handled=false when the event id was already processed.
func (r *Router) Dispatch(ctx context.Context, c Change) (handled bool, err error) {
	c.normalize()
	if err := c.Validate(); err != nil {
		metrics.EventsHandled.WithLabelValues(c.Collection, string(c.Op), "rejected").Inc()
		return false, err
	}

	if c.EventID != "" && !r.dedupe.Claim(ctx, c.EventID) {
		r.logger.Info("Duplicate event skipped", "event_id", c.EventID, "collection", c.Collection, "id", c.ID)
		metrics.EventsHandled.WithLabelValues(c.Collection, string(c.Op), "duplicate").Inc()
		return false, nil
	}

	if err := r.route(ctx, c); err != nil {
		if c.EventID != "" {
			r.dedupe.Release(ctx, c.EventID)
		}
		metrics.EventsHandled.WithLabelValues(c.Collection, string(c.Op), "rejected").Inc()
		return false, err
	}

	metrics.EventsHandled.WithLabelValues(c.Collection, string(c.Op), "handled").Inc()
	return true, nil
}

func (r *Router) route(ctx context.Context, c Change) error {
	h := r.handlers
	switch c.Collection {
	case config.OrdersTable:
		after, err := decode[domain.Order](c.After, "after")
		if err != nil {
			return err
		}
		if c.Op == OpCreate {
			h.OrderCreated(ctx, c.ID, after)
			return nil
		}
		before, err := decode[domain.Order](c.Before, "before")
		if err != nil {
			return err
		}
		h.OrderUpdated(ctx, c.ID, before, after)

	case config.ServiceRecordsTable:
		after, err := decode[domain.ServiceRecord](c.After, "after")
		if err != nil {
			return err
		}
		if c.Op == OpCreate {
			h.ServiceRecordCreated(ctx, c.ID, after)
			return nil
		}
		before, err := decode[domain.ServiceRecord](c.Before, "before")
		if err != nil {
			return err
		}
		h.ServiceRecordUpdated(ctx, c.ID, before, after)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCollection, c.Collection)
	}
	return nil
}
