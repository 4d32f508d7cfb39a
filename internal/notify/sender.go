// Package notify delivers outbound email through a configured provider.
package notify

import (
	"context"
	"errors"
	"fmt"

	"clubsphere-backend/internal/config"
)

var ErrNoRecipients = errors.New("at least one recipient is required")

// Message is a single email. Each recipient receives a separate copy.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

func (m Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	if m.Subject == "" {
		return errors.New("subject is required")
	}
	return nil
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the sender selected by cfg.Provider.
func New(cfg config.EmailConfig) (Sender, error) {
	switch cfg.Provider {
	case config.EmailProviderSendGrid:
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.From, cfg.FromName), nil
	case config.EmailProviderResend:
		return NewResendSender(cfg.ResendAPIKey, cfg.From, cfg.FromName), nil
	case config.EmailProviderSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From, cfg.FromName), nil
	case config.EmailProviderLog, "":
		return NewLogSender(), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %q", cfg.Provider)
	}
}
