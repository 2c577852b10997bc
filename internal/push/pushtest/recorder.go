// Package pushtest provides a recording push.Sender for tests.
package pushtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/albapepper/booking-notifier/internal/push"
)

// Recorder captures every message and fails sends for configured tokens.
type Recorder struct {
	mu     sync.Mutex
	sent   []push.Message
	failOn map[string]error
}

func NewRecorder() *Recorder {
	return &Recorder{failOn: make(map[string]error)}
}

// FailToken makes every send to token return err.
func (r *Recorder) FailToken(token string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn[token] = err
}

func (r *Recorder) Send(_ context.Context, msg push.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failOn[msg.Token]; ok {
		return "", err
	}
	r.sent = append(r.sent, msg)
	return fmt.Sprintf("msg-%d", len(r.sent)), nil
}

// Sent returns the successfully sent messages in send order.
func (r *Recorder) Sent() []push.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]push.Message(nil), r.sent...)
}

// SentTo returns the messages delivered to token.
func (r *Recorder) SentTo(token string) []push.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []push.Message
	for _, m := range r.sent {
		if m.Token == token {
			out = append(out, m)
		}
	}
	return out
}
