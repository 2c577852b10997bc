package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/booking-notifier/internal/domain"
	"github.com/albapepper/booking-notifier/internal/push"
	"github.com/albapepper/booking-notifier/internal/push/pushtest"
	"github.com/albapepper/booking-notifier/internal/store/memory"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func seeded() *memory.Store {
	s := memory.New()
	s.PutUser(domain.User{ID: "u1", Name: "Dana", PushToken: "tok-u1"})
	s.PutUser(domain.User{ID: "u2", Name: "No Token"})
	s.PutUser(domain.User{ID: "a1", Name: "Admin One", PushToken: "tok-a1", IsAdmin: true})
	s.PutUser(domain.User{ID: "a2", Name: "Admin Two", PushToken: "tok-a2", IsAdmin: true})
	s.PutUser(domain.User{ID: "a3", Name: "Admin Three", PushToken: "tok-a3", IsAdmin: true})
	return s
}

// --------------------------------------------------------------------------
// Tokens
// --------------------------------------------------------------------------

func TestTokens_Resolve(t *testing.T) {
	tokens := NewTokens(seeded(), discard)
	ctx := context.Background()

	tok, ok := tokens.Resolve(ctx, "u1")
	assert.True(t, ok)
	assert.Equal(t, "tok-u1", tok)

	_, ok = tokens.Resolve(ctx, "u2")
	assert.False(t, ok, "empty token is absent")

	_, ok = tokens.Resolve(ctx, "ghost")
	assert.False(t, ok, "missing user is absent")
}

type failingUsers struct {
	mock.Mock
}

func (m *failingUsers) GetUser(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *failingUsers) ListAdmins(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *failingUsers) ClearPushToken(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestTokens_ResolveLookupFailureIsAbsent(t *testing.T) {
	users := new(failingUsers)
	users.On("GetUser", mock.Anything, "u1").Return(domain.User{}, errors.New("connection refused"))

	_, ok := NewTokens(users, discard).Resolve(context.Background(), "u1")
	assert.False(t, ok)
	users.AssertExpectations(t)
}

func TestTokens_InvalidateOnlyOnDeadTokenKinds(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		cleared bool
	}{
		{"unregistered", fmt.Errorf("%w: gone", push.ErrUnregistered), true},
		{"invalid", push.ErrInvalidToken, true},
		{"transient", errors.New("deadline exceeded"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := seeded()
			tokens := NewTokens(s, discard)

			assert.Equal(t, tc.cleared, tokens.Invalidate(context.Background(), "u1", tc.err))

			u, err := s.GetUser(context.Background(), "u1")
			require.NoError(t, err)
			if tc.cleared {
				assert.Empty(t, u.PushToken)
			} else {
				assert.Equal(t, "tok-u1", u.PushToken)
			}
		})
	}
}

// --------------------------------------------------------------------------
// Dispatcher
// --------------------------------------------------------------------------

func TestDispatcher_SendToUser(t *testing.T) {
	s := seeded()
	rec := pushtest.NewRecorder()
	d := NewDispatcher(s, rec, 4, discard)

	ok := d.SendToUser(context.Background(), "u1", "Title", "Body", map[string]string{"type": "order"})
	require.True(t, ok)

	sent := rec.SentTo("tok-u1")
	require.Len(t, sent, 1)
	assert.Equal(t, "Body", sent[0].Body)
	assert.Equal(t, push.DefaultHints(), sent[0].Hints)
	assert.Equal(t, "order", sent[0].Data["type"])
}

func TestDispatcher_SendToUserWithoutTokenIsSilent(t *testing.T) {
	rec := pushtest.NewRecorder()
	d := NewDispatcher(seeded(), rec, 4, discard)

	assert.False(t, d.SendToUser(context.Background(), "u2", "T", "B", nil))
	assert.False(t, d.SendToUser(context.Background(), "ghost", "T", "B", nil))
	assert.Empty(t, rec.Sent())
}

func TestDispatcher_UnregisteredTokenIsCleared(t *testing.T) {
	s := seeded()
	rec := pushtest.NewRecorder()
	rec.FailToken("tok-u1", fmt.Errorf("%w: NotRegistered", push.ErrUnregistered))
	d := NewDispatcher(s, rec, 4, discard)

	assert.False(t, d.SendToUser(context.Background(), "u1", "T", "B", nil))

	u, _ := s.GetUser(context.Background(), "u1")
	assert.Empty(t, u.PushToken)
}

func TestDispatcher_TransientFailureKeepsToken(t *testing.T) {
	s := seeded()
	rec := pushtest.NewRecorder()
	rec.FailToken("tok-u1", errors.New("503 unavailable"))
	d := NewDispatcher(s, rec, 4, discard)

	assert.False(t, d.SendToUser(context.Background(), "u1", "T", "B", nil))

	u, _ := s.GetUser(context.Background(), "u1")
	assert.Equal(t, "tok-u1", u.PushToken)
}

type panickingSender struct{}

func (panickingSender) Send(context.Context, push.Message) (string, error) {
	panic("transport exploded")
}

func TestDispatcher_SendToUserRecoversPanic(t *testing.T) {
	d := NewDispatcher(seeded(), panickingSender{}, 4, discard)
	assert.NotPanics(t, func() {
		assert.False(t, d.SendToUser(context.Background(), "u1", "T", "B", nil))
	})
}

func TestDispatcher_SendToAdminsToleratesPartialFailure(t *testing.T) {
	s := seeded()
	rec := pushtest.NewRecorder()
	rec.FailToken("tok-a2", errors.New("timeout"))
	d := NewDispatcher(s, rec, 1, discard)

	ids := d.SendToAdmins(context.Background(), "New Order Received 📦", "Order #1", nil)

	assert.Equal(t, []string{"a1", "a2", "a3"}, ids)
	assert.Len(t, rec.SentTo("tok-a1"), 1)
	assert.Len(t, rec.SentTo("tok-a3"), 1)
	assert.Empty(t, rec.SentTo("tok-u1"))
}

func TestDispatcher_SendToAdminsListFailure(t *testing.T) {
	users := new(failingUsers)
	users.On("ListAdmins", mock.Anything).Return(nil, errors.New("db down"))
	rec := pushtest.NewRecorder()

	ids := NewDispatcher(users, rec, 4, discard).SendToAdmins(context.Background(), "T", "B", nil)
	assert.Nil(t, ids)
	assert.Empty(t, rec.Sent())
}

// --------------------------------------------------------------------------
// Inbox
// --------------------------------------------------------------------------

func TestInbox_WriteEach(t *testing.T) {
	s := seeded()
	inbox := NewInbox(s, 2, discard)

	n := inbox.WriteEach(context.Background(), []string{"a1", "a2", "a3"}, domain.Notification{
		Title:     "Booking Modified by User 📝",
		Message:   "Dana modified their Gearbox booking",
		Category:  domain.CategoryBookingModified,
		RelatedID: "r1",
	})

	assert.Equal(t, 3, n)
	for _, id := range []string{"a1", "a2", "a3"} {
		recs := s.NotificationsFor(id)
		require.Len(t, recs, 1, id)
		assert.False(t, recs[0].IsRead)
		assert.Equal(t, "r1", recs[0].RelatedID)
	}
}

func TestInbox_WriteHasNoIdempotencyKey(t *testing.T) {
	s := seeded()
	inbox := NewInbox(s, 1, discard)
	n := domain.Notification{UserID: "u1", Title: "T", Category: domain.CategoryOrder}

	_, err := inbox.Write(context.Background(), n)
	require.NoError(t, err)
	_, err = inbox.Write(context.Background(), n)
	require.NoError(t, err)

	assert.Len(t, s.NotificationsFor("u1"), 2)
}

// flakyNotifications panics on inserts for one user.
type flakyNotifications struct {
	*memory.Store
	panicFor string
}

func (f flakyNotifications) InsertNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if n.UserID == f.panicFor {
		panic("insert exploded")
	}
	return f.Store.InsertNotification(ctx, n)
}

func TestInbox_WriteEachRecoversPanics(t *testing.T) {
	s := seeded()
	inbox := NewInbox(flakyNotifications{Store: s, panicFor: "a2"}, 2, discard)

	var n int
	require.NotPanics(t, func() {
		n = inbox.WriteEach(context.Background(), []string{"a1", "a2", "a3"}, domain.Notification{
			Title:    "New Service Booking 🔧",
			Category: domain.CategoryNewBooking,
		})
	})

	assert.Equal(t, 2, n)
	assert.Len(t, s.NotificationsFor("a1"), 1)
	assert.Empty(t, s.NotificationsFor("a2"))
	assert.Len(t, s.NotificationsFor("a3"), 1)
}

func TestInbox_WriteReturnsPanicAsError(t *testing.T) {
	inbox := NewInbox(flakyNotifications{Store: seeded(), panicFor: "u1"}, 1, discard)

	_, err := inbox.Write(context.Background(), domain.Notification{UserID: "u1", Title: "T"})
	assert.ErrorContains(t, err, "insert exploded")
}
