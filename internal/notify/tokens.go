// Package notify turns notification decisions into deliveries: push tokens
// are resolved per user, pushes are sent to one user or fanned out to all
// admins, and in-app records are appended to the notifications table.
// Nothing in this package returns a delivery failure to its caller.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/albapepper/booking-notifier/internal/push"
	"github.com/albapepper/booking-notifier/internal/store"
)

// Tokens resolves and invalidates stored push tokens.
type Tokens struct {
	users  store.Users
	logger *slog.Logger
}

func NewTokens(users store.Users, logger *slog.Logger) *Tokens {
	return &Tokens{users: users, logger: logger}
}

// Resolve returns the user's push token. ok is false when the user does not
// exist, the lookup fails, or no token is stored.
func (t *Tokens) Resolve(ctx context.Context, userID string) (token string, ok bool) {
	u, err := t.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			t.logger.Info("Push recipient not found", "user_id", userID)
		} else {
			t.logger.Warn("Push recipient lookup failed", "user_id", userID, "error", err)
		}
		return "", false
	}
	if u.PushToken == "" {
		t.logger.Info("No push token for user", "user_id", userID)
		return "", false
	}
	return u.PushToken, true
}

// Invalidate clears the stored token when sendErr says the token is dead.
// Transient failures leave it alone. Reports whether the token was cleared.
func (t *Tokens) Invalidate(ctx context.Context, userID string, sendErr error) bool {
	if !push.IsTokenDead(sendErr) {
		return false
	}
	if err := t.users.ClearPushToken(ctx, userID); err != nil {
		t.logger.Warn("Failed to clear dead push token", "user_id", userID, "error", err)
		return false
	}
	t.logger.Info("Cleared dead push token", "user_id", userID)
	return true
}
