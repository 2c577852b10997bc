package push

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogSender records sends in the log instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) (string, error) {
	id := "log-" + uuid.NewString()
	s.logger.Info("Push send (delivery disabled)",
		"message_id", id, "title", msg.Title, "body", msg.Body, "type", msg.Data["type"])
	return id, nil
}
