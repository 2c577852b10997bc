package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/booking-notifier/internal/domain"
	"github.com/albapepper/booking-notifier/internal/store"
)

func TestFindDueReminders_InclusiveWindowSkipsReminded(t *testing.T) {
	s := New()
	from := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	to := from.Add(2 * time.Hour)

	s.PutServiceRecord(domain.ServiceRecord{ID: "at-from", ServiceDate: from})
	s.PutServiceRecord(domain.ServiceRecord{ID: "at-to", ServiceDate: to})
	s.PutServiceRecord(domain.ServiceRecord{ID: "before", ServiceDate: from.Add(-time.Second)})
	s.PutServiceRecord(domain.ServiceRecord{ID: "after", ServiceDate: to.Add(time.Second)})
	s.PutServiceRecord(domain.ServiceRecord{ID: "done", ServiceDate: from.Add(time.Hour), ReminderSent: true})

	due, err := s.FindDueReminders(context.Background(), from, to)
	require.NoError(t, err)

	ids := make([]string, 0, len(due))
	for _, r := range due {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"at-from", "at-to"}, ids)
}

func TestInsertNotification_ForcesUnreadAndStamps(t *testing.T) {
	s := New()
	stamp := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return stamp })

	n, err := s.InsertNotification(context.Background(), domain.Notification{UserID: "u1", IsRead: true})
	require.NoError(t, err)

	assert.NotEmpty(t, n.ID)
	assert.False(t, n.IsRead)
	assert.Equal(t, stamp, n.CreatedAt)
	assert.Len(t, s.NotificationsFor("u1"), 1)
}

func TestPurgeReadNotifications_KeepsUnread(t *testing.T) {
	s := New()
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return old })
	ctx := context.Background()

	read, _ := s.InsertNotification(ctx, domain.Notification{UserID: "u1"})
	_, _ = s.InsertNotification(ctx, domain.Notification{UserID: "u1"})
	s.MarkRead(read.ID)

	purged, err := s.PurgeReadNotifications(ctx, old.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	assert.Len(t, s.AllNotifications(), 1)
}

func TestLookups_ReturnNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetVehicle(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.ClaimReminder(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, s.ClearPushToken(ctx, "missing"))
}

func TestClaimReminder_OnlyFirstCallWins(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.PutServiceRecord(domain.ServiceRecord{ID: "r1"})

	first, err := s.ClaimReminder(ctx, "r1")
	require.NoError(t, err)
	second, err := s.ClaimReminder(ctx, "r1")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	r, err := s.GetServiceRecord(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, r.ReminderSent)
}
