// Package reminder sends the one-time "your booking is tomorrow" reminder.
//
// A scan selects bookings whose service date falls inside [now+LeadMin,
// now+LeadMax] and whose reminder_sent flag is false. The window is wider
// than the scan interval so a booking is seen by at least one scan. There is
// no catch-up: if scans stop for longer than the window width, bookings that
// slide past it are never reminded.
//
// Scans on one Scanner run one at a time. Each booking is claimed in the
// store (reminder_sent flipped from false to true) before anything is sent,
// so scans in other processes never remind the same booking twice. A crash
// between the claim and the send loses that reminder.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/booking-notifier/internal/booking"
	"github.com/albapepper/booking-notifier/internal/domain"
	"github.com/albapepper/booking-notifier/internal/metrics"
	"github.com/albapepper/booking-notifier/internal/store"
)

// Store is the data the scanner reads and the marker it writes.
type Store interface {
	FindDueReminders(ctx context.Context, from, to time.Time) ([]domain.ServiceRecord, error)
	ClaimReminder(ctx context.Context, id string) (bool, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetVehicle(ctx context.Context, id string) (domain.Vehicle, error)
}

// Pusher is satisfied by notify.Dispatcher.
type Pusher interface {
	SendToUser(ctx context.Context, userID, title, body string, data map[string]string) bool
}

// Writer is satisfied by notify.Inbox.
type Writer interface {
	Write(ctx context.Context, n domain.Notification) (domain.Notification, error)
}

// Config controls the window and per-scan parallelism.
type Config struct {
	LeadMin  time.Duration
	LeadMax  time.Duration
	Workers  int
	Location *time.Location
}

// DefaultConfig is the hourly 23h to 25h window in New York time.
func DefaultConfig() Config {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return Config{LeadMin: 23 * time.Hour, LeadMax: 25 * time.Hour, Workers: 8, Location: loc}
}

type Scanner struct {
	mu     sync.Mutex // serializes Scan
	store  Store
	push   Pusher
	inbox  Writer
	cfg    Config
	logger *slog.Logger
}

func NewScanner(st Store, push Pusher, inbox Writer, cfg Config, logger *slog.Logger) *Scanner {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Scanner{store: st, push: push, inbox: inbox, cfg: cfg, logger: logger}
}

// Window returns the inclusive service-date range a scan at now selects.
func (s *Scanner) Window(now time.Time) (from, to time.Time) {
	return now.Add(s.cfg.LeadMin), now.Add(s.cfg.LeadMax)
}

// --------------------------------------------------------------------------
// Result
// --------------------------------------------------------------------------

// Result summarizes one scan.
type Result struct {
	Found    int
	Reminded int
	Skipped  int // terminal status left untouched, or already claimed
	Unlinked int // no owning account, marked without sending
	Failed   int
	Errors   []string
	Duration time.Duration
}

// Summary returns a one-line human-readable summary.
func (r Result) Summary() string {
	return fmt.Sprintf("found=%d reminded=%d skipped=%d unlinked=%d failed=%d duration=%s",
		r.Found, r.Reminded, r.Skipped, r.Unlinked, r.Failed, r.Duration.Round(time.Millisecond))
}

type outcome string

const (
	outcomeReminded outcome = "reminded"
	outcomeSkipped  outcome = "skipped"
	outcomeClaimed  outcome = "already_claimed"
	outcomeUnlinked outcome = "unlinked"
	outcomeFailed   outcome = "failed"
)

// --------------------------------------------------------------------------
// Scan
// --------------------------------------------------------------------------

// Scan processes every due booking. Records run concurrently and a failure
// in one never stops the others. An overlapping call waits for the running
// scan and then sees its claims.
func (s *Scanner) Scan(ctx context.Context, now time.Time) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	timer := metrics.ReminderScanDuration
	var result Result

	from, to := s.Window(now)
	due, err := s.store.FindDueReminders(ctx, from, to)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.Duration = time.Since(start)
		s.logger.Error("Reminder scan query failed", "error", err)
		return result
	}
	result.Found = len(due)
	if len(due) == 0 {
		s.logger.Info("No bookings need reminders", "from", from, "to", to)
		result.Duration = time.Since(start)
		timer.Observe(result.Duration.Seconds())
		return result
	}
	s.logger.Info("Found bookings that need reminders", "count", len(due), "from", from, "to", to)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for _, r := range due {
		g.Go(func() error {
			out, err := s.process(ctx, r)
			metrics.RemindersProcessed.WithLabelValues(string(out)).Inc()

			mu.Lock()
			defer mu.Unlock()
			switch out {
			case outcomeReminded:
				result.Reminded++
			case outcomeSkipped, outcomeClaimed:
				result.Skipped++
			case outcomeUnlinked:
				result.Unlinked++
			default:
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", r.ID, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	result.Duration = time.Since(start)
	timer.Observe(result.Duration.Seconds())
	s.logger.Info("Reminder scan finished", "summary", result.Summary())
	return result
}

func (s *Scanner) process(ctx context.Context, r domain.ServiceRecord) (out outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("Reminder panicked", "record_id", r.ID, "panic", fmt.Sprint(p))
			out, err = outcomeFailed, fmt.Errorf("panic: %v", p)
		}
	}()

	if domain.IsTerminalStatus(r.Status) {
		s.logger.Info("Skipping reminder", "record_id", r.ID, "status", r.Status)
		return outcomeSkipped, nil
	}

	claimed, err := s.store.ClaimReminder(ctx, r.ID)
	if err != nil {
		s.logger.Warn("Failed to claim reminder", "record_id", r.ID, "error", err)
		return outcomeFailed, err
	}
	if !claimed {
		s.logger.Info("Reminder already claimed", "record_id", r.ID)
		return outcomeClaimed, nil
	}

	name := s.displayName(ctx, r)
	vehicle := s.vehicleLabel(ctx, r)
	svc := r.ServiceType.FullName()
	date, clock := booking.FormatAppointment(r.ServiceDate, s.cfg.Location)

	out = outcomeUnlinked
	if r.UserID != "" {
		const title = "Booking Reminder 🔔"
		body := fmt.Sprintf("Your %s appointment is tomorrow at %s", svc, clock)
		message := fmt.Sprintf("Your %s appointment is scheduled for %s at %s.", svc, date, clock)
		if vehicle != "" {
			body += " for your " + vehicle
			message += " Vehicle: " + vehicle
		}

		s.push.SendToUser(ctx, r.UserID, title, body, map[string]string{
			"type":     domain.PushReminder,
			"recordId": r.ID,
		})
		if _, err := s.inbox.Write(ctx, domain.Notification{
			UserID:    r.UserID,
			Title:     title,
			Message:   message,
			Category:  domain.CategoryService,
			RelatedID: r.ID,
		}); err != nil {
			s.logger.Warn("Reminder in-app write failed", "record_id", r.ID, "error", err)
		}
		s.logger.Info("Sent booking reminder", "record_id", r.ID, "user_id", r.UserID, "customer", name)
		out = outcomeReminded
	} else {
		s.logger.Info("No account linked to booking, cannot send reminder", "record_id", r.ID, "customer", name)
	}
	return out, nil
}

// displayName prefers the account name, then the name typed on the booking.
func (s *Scanner) displayName(ctx context.Context, r domain.ServiceRecord) string {
	if r.UserID != "" {
		u, err := s.store.GetUser(ctx, r.UserID)
		if err == nil && u.Name != "" {
			return u.Name
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("Reminder name lookup failed", "user_id", r.UserID, "error", err)
		}
	}
	if name := strings.TrimSpace(r.CustomerName); name != "" {
		return name
	}
	return "Customer"
}

// vehicleLabel resolves the referenced vehicle, then the inline make and
// model. Empty means no vehicle text.
func (s *Scanner) vehicleLabel(ctx context.Context, r domain.ServiceRecord) string {
	if r.VehicleID != "" {
		v, err := s.store.GetVehicle(ctx, r.VehicleID)
		if err == nil {
			if label := v.Label(); label != "" {
				return label
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("Reminder vehicle lookup failed", "vehicle_id", r.VehicleID, "error", err)
		}
	}
	if r.VehicleMake != "" && r.VehicleModel != "" {
		return r.VehicleMake + " " + r.VehicleModel
	}
	return ""
}
