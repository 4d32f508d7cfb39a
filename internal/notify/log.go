package notify

import (
	"context"

	"clubsphere-backend/internal/logger"
)

// LogSender writes messages to the log instead of delivering them. It is the
// default for development.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Email (not delivered)", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}
