package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/booking-notifier/internal/domain"
	"github.com/albapepper/booking-notifier/internal/store"
)

// Store implements store.Store on the pool's prepared statements.
type Store struct {
	pool *Pool
}

var _ store.Store = (*Store)(nil)

func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

func notFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, store.ErrNotFound)
	}
	return fmt.Errorf("get %s %s: %w", what, id, err)
}

// --------------------------------------------------------------------------
// Users
// --------------------------------------------------------------------------

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, "user_by_id", id).Scan(&u.ID, &u.Name, &u.PushToken, &u.IsAdmin)
	if err != nil {
		return domain.User{}, notFound(err, "user", id)
	}
	return u, nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, "admin_users")
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.PushToken, &u.IsAdmin); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, u)
	}
	return admins, rows.Err()
}

func (s *Store) ClearPushToken(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, "clear_push_token", id); err != nil {
		return fmt.Errorf("clear push token %s: %w", id, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Notifications
// --------------------------------------------------------------------------

func (s *Store) InsertNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	err := s.pool.QueryRow(ctx, "insert_notification",
		n.UserID, n.Title, n.Message, string(n.Category), n.RelatedID,
	).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("insert notification for %s: %w", n.UserID, err)
	}
	return n, nil
}

func (s *Store) PurgeReadNotifications(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, "purge_read_notifications", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// --------------------------------------------------------------------------
// Orders
// --------------------------------------------------------------------------

func (s *Store) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := s.pool.QueryRow(ctx, "order_by_id", id).
		Scan(&o.ID, &o.UserID, &o.CustomerName, &o.TotalAmount, &o.Status)
	if err != nil {
		return domain.Order{}, notFound(err, "order", id)
	}
	return o, nil
}

// --------------------------------------------------------------------------
// Service records
// --------------------------------------------------------------------------

func scanServiceRecord(row pgx.Row) (domain.ServiceRecord, error) {
	var r domain.ServiceRecord
	err := row.Scan(
		&r.ID, &r.UserID, &r.CustomerName, &r.ServiceType,
		&r.ServiceDate, &r.Status, &r.ModifiedByAdmin, &r.ReminderSent, &r.Cost, &r.Description,
		&r.VehicleID, &r.VehicleMake, &r.VehicleModel,
	)
	return r, err
}

func (s *Store) GetServiceRecord(ctx context.Context, id string) (domain.ServiceRecord, error) {
	r, err := scanServiceRecord(s.pool.QueryRow(ctx, "service_record_by_id", id))
	if err != nil {
		return domain.ServiceRecord{}, notFound(err, "service record", id)
	}
	return r, nil
}

func (s *Store) ClearModifiedByAdmin(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, "clear_modified_by_admin", id); err != nil {
		return fmt.Errorf("clear admin marker %s: %w", id, err)
	}
	return nil
}

func (s *Store) FindDueReminders(ctx context.Context, from, to time.Time) ([]domain.ServiceRecord, error) {
	rows, err := s.pool.Query(ctx, "due_reminders", from, to)
	if err != nil {
		return nil, fmt.Errorf("find due reminders: %w", err)
	}
	defer rows.Close()

	var due []domain.ServiceRecord
	for rows.Next() {
		r, err := scanServiceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service record: %w", err)
		}
		due = append(due, r)
	}
	return due, rows.Err()
}

func (s *Store) ClaimReminder(ctx context.Context, id string) (bool, error) {
	var claimed string
	err := s.pool.QueryRow(ctx, "claim_reminder", id).Scan(&claimed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("claim reminder %s: %w", id, err)
	}
	return true, nil
}

// --------------------------------------------------------------------------
// Vehicles
// --------------------------------------------------------------------------

func (s *Store) GetVehicle(ctx context.Context, id string) (domain.Vehicle, error) {
	var v domain.Vehicle
	if err := s.pool.QueryRow(ctx, "vehicle_by_id", id).Scan(&v.ID, &v.Make, &v.Model); err != nil {
		return domain.Vehicle{}, notFound(err, "vehicle", id)
	}
	return v, nil
}
