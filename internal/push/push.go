// Package push delivers device notifications. The FCM sender is the
// production transport; LogSender stands in when no credentials are set.
package push

import (
	"context"
	"errors"
)

// Failure kinds that mean the token itself is dead. Callers clear the stored
// token on these and on nothing else.
var (
	ErrInvalidToken = errors.New("push: invalid registration token")
	ErrUnregistered = errors.New("push: registration token not registered")
)

// Hints are platform delivery options passed through untouched.
type Hints struct {
	Sound           string
	AndroidPriority string
	Badge           int
}

// DefaultHints matches what the mobile apps expect for every alert.
func DefaultHints() Hints {
	return Hints{Sound: "default", AndroidPriority: "high", Badge: 1}
}

// Message is one push to one device.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
	Hints Hints
}

// Sender sends a message and returns the transport's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// IsTokenDead reports whether err says the token will never work again.
func IsTokenDead(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrUnregistered)
}
