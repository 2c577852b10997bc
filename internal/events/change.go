// Package events routes record changes to the notification handlers.
//
// A Change arrives from the Postgres change feed, from NATS, or from the
// HTTP webhook. NATS and HTTP callers may redeliver, so the router skips
// event ids it has already handled when a dedupe store is configured.
package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/albapepper/booking-notifier/internal/config"
	"github.com/albapepper/booking-notifier/internal/domain"
)

var (
	ErrUnknownCollection = errors.New("events: unknown collection")
	ErrMalformedSnapshot = errors.New("events: malformed snapshot")
)

// Op is the kind of write that produced a change.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
)

// Change is one create or update with its snapshots. Before is empty for
// creates.
type Change struct {
	EventID    string          `json:"event_id"`
	Collection string          `json:"collection"`
	Op         Op              `json:"op"`
	ID         string          `json:"id"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after"`
}

// normalize maps trigger spellings ("insert", "INSERT") onto Op values.
func (c *Change) normalize() {
	switch c.Op {
	case "insert", "INSERT", "CREATE":
		c.Op = OpCreate
	case "UPDATE":
		c.Op = OpUpdate
	}
}

// Validate checks the envelope without decoding the snapshots.
func (c Change) Validate() error {
	switch c.Collection {
	case config.OrdersTable, config.ServiceRecordsTable:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCollection, c.Collection)
	}
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrMalformedSnapshot)
	}
	if len(c.After) == 0 {
		return fmt.Errorf("%w: missing after snapshot", ErrMalformedSnapshot)
	}
	switch c.Op {
	case OpCreate:
	case OpUpdate:
		if len(c.Before) == 0 {
			return fmt.Errorf("%w: update without before snapshot", ErrMalformedSnapshot)
		}
	default:
		return fmt.Errorf("%w: unsupported op %q", ErrMalformedSnapshot, c.Op)
	}
	return nil
}

func decode[T any](raw json.RawMessage, what string) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %s: %v", ErrMalformedSnapshot, what, err)
	}
	return v, nil
}

// NewOrderChange builds a create change from a stored order, for replays.
func NewOrderChange(eventID string, o domain.Order) (Change, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return Change{}, err
	}
	return Change{EventID: eventID, Collection: config.OrdersTable, Op: OpCreate, ID: o.ID, After: raw}, nil
}

// NewServiceRecordChange builds a create change from a stored booking.
func NewServiceRecordChange(eventID string, r domain.ServiceRecord) (Change, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return Change{}, err
	}
	return Change{EventID: eventID, Collection: config.ServiceRecordsTable, Op: OpCreate, ID: r.ID, After: raw}, nil
}
