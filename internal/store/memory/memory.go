// Package memory provides an in-memory implementation of the store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/booking-notifier/internal/domain"
	"github.com/albapepper/booking-notifier/internal/store"
)

type Store struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	orders        map[string]domain.Order
	records       map[string]domain.ServiceRecord
	vehicles      map[string]domain.Vehicle
	notifications []domain.Notification
	now           func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		orders:   make(map[string]domain.Order),
		records:  make(map[string]domain.ServiceRecord),
		vehicles: make(map[string]domain.Vehicle),
		now:      time.Now,
	}
}

// SetClock overrides the created_at source for inserted notifications.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// --------------------------------------------------------------------------
// Seeding helpers
// --------------------------------------------------------------------------

func (s *Store) PutUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) PutOrder(o domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

func (s *Store) PutServiceRecord(r domain.ServiceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
}

func (s *Store) PutVehicle(v domain.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[v.ID] = v
}

// NotificationsFor returns the in-app records written for a user, oldest first.
func (s *Store) NotificationsFor(userID string) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// AllNotifications returns every in-app record written so far.
func (s *Store) AllNotifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Notification(nil), s.notifications...)
}

// --------------------------------------------------------------------------
// store.Users
// --------------------------------------------------------------------------

func (s *Store) GetUser(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) ListAdmins(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var admins []domain.User
	for _, u := range s.users {
		if u.IsAdmin {
			admins = append(admins, u)
		}
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].ID < admins[j].ID })
	return admins, nil
}

func (s *Store) ClearPushToken(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.PushToken = ""
		s.users[id] = u
	}
	return nil
}

// --------------------------------------------------------------------------
// store.Notifications
// --------------------------------------------------------------------------

func (s *Store) InsertNotification(_ context.Context, n domain.Notification) (domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = uuid.NewString()
	n.IsRead = false
	n.CreatedAt = s.now()
	s.notifications = append(s.notifications, n)
	return n, nil
}

func (s *Store) PurgeReadNotifications(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.notifications[:0]
	var purged int64
	for _, n := range s.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, n)
	}
	s.notifications = kept
	return purged, nil
}

// MarkRead flips the read flag, as the client app would.
func (s *Store) MarkRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].IsRead = true
		}
	}
}

// --------------------------------------------------------------------------
// store.Orders / store.ServiceRecords / store.Vehicles
// --------------------------------------------------------------------------

func (s *Store) GetOrder(_ context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, store.ErrNotFound
	}
	return o, nil
}

func (s *Store) GetServiceRecord(_ context.Context, id string) (domain.ServiceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return domain.ServiceRecord{}, store.ErrNotFound
	}
	return r, nil
}

func (s *Store) ClearModifiedByAdmin(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return store.ErrNotFound
	}
	r.ModifiedByAdmin = false
	s.records[id] = r
	return nil
}

func (s *Store) FindDueReminders(_ context.Context, from, to time.Time) ([]domain.ServiceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var due []domain.ServiceRecord
	for _, r := range s.records {
		if r.ReminderSent || r.ServiceDate.Before(from) || r.ServiceDate.After(to) {
			continue
		}
		due = append(due, r)
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ServiceDate.Before(due[j].ServiceDate) })
	return due, nil
}

func (s *Store) ClaimReminder(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if r.ReminderSent {
		return false, nil
	}
	r.ReminderSent = true
	s.records[id] = r
	return true, nil
}

func (s *Store) GetVehicle(_ context.Context, id string) (domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vehicles[id]
	if !ok {
		return domain.Vehicle{}, store.ErrNotFound
	}
	return v, nil
}
