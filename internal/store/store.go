// Package store defines the document-store operations the notification
// engine consumes. internal/db implements them on Postgres and
// store/memory keeps them in process for tests and local runs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/albapepper/booking-notifier/internal/domain"
)

// ErrNotFound is returned by single-record lookups when the id is unknown.
var ErrNotFound = errors.New("store: not found")

type Users interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
	// ClearPushToken deletes the stored token; a missing user is not an error.
	ClearPushToken(ctx context.Context, id string) error
}

type Notifications interface {
	InsertNotification(ctx context.Context, n domain.Notification) (domain.Notification, error)
	// PurgeReadNotifications deletes read records created before cutoff.
	PurgeReadNotifications(ctx context.Context, cutoff time.Time) (int64, error)
}

type Orders interface {
	GetOrder(ctx context.Context, id string) (domain.Order, error)
}

type ServiceRecords interface {
	GetServiceRecord(ctx context.Context, id string) (domain.ServiceRecord, error)
	ClearModifiedByAdmin(ctx context.Context, id string) error
	// FindDueReminders returns bookings with from <= service_date <= to that
	// have not been reminded yet.
	FindDueReminders(ctx context.Context, from, to time.Time) ([]domain.ServiceRecord, error)
	// ClaimReminder sets reminder_sent when it is still false and reports
	// whether this call was the one that set it.
	ClaimReminder(ctx context.Context, id string) (bool, error)
}

type Vehicles interface {
	GetVehicle(ctx context.Context, id string) (domain.Vehicle, error)
}

// Store is the full set, satisfied by both backends.
type Store interface {
	Users
	Notifications
	Orders
	ServiceRecords
	Vehicles
}
