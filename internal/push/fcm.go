package push

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMSender sends push notifications via Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
	logger *slog.Logger
}

// NewFCMSender creates an FCM sender from a service account credentials file.
func NewFCMSender(ctx context.Context, credentialsFile string, logger *slog.Logger) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}
	return &FCMSender{client: client, logger: logger}, nil
}

// New picks the FCM sender when credentials are configured and falls back
// to logging sends otherwise.
func New(ctx context.Context, credentialsFile string, logger *slog.Logger) (Sender, error) {
	if credentialsFile == "" {
		logger.Info("Push delivery disabled (no FIREBASE_CREDENTIALS_FILE), logging sends")
		return NewLogSender(logger), nil
	}
	s, err := NewFCMSender(ctx, credentialsFile, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Send delivers one message. Dead-token responses are mapped onto
// ErrUnregistered and ErrInvalidToken.
func (s *FCMSender) Send(ctx context.Context, msg Message) (string, error) {
	id, err := s.client.Send(ctx, toFCM(msg))
	if err != nil {
		return "", classify(err)
	}
	return id, nil
}

func toFCM(msg Message) *messaging.Message {
	badge := msg.Hints.Badge
	return &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: msg.Hints.AndroidPriority,
			Notification: &messaging.AndroidNotification{
				Sound: msg.Hints.Sound,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: msg.Hints.Sound,
					Badge: &badge,
				},
			},
		},
	}
}

func classify(err error) error {
	switch {
	case messaging.IsUnregistered(err):
		return fmt.Errorf("%w: %v", ErrUnregistered, err)
	case errorutils.IsInvalidArgument(err) && namesRegistrationToken(err):
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	default:
		return fmt.Errorf("fcm send: %w", err)
	}
}

// namesRegistrationToken reports whether an INVALID_ARGUMENT response is
// about the token. FCM uses the same code for malformed payloads, which
// must not clear a working token.
func namesRegistrationToken(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "registration token")
}
