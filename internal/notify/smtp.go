package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"clubsphere-backend/internal/logger"
)

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		dialer:    gomail.NewDialer(host, port, username, password),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Send delivers every copy over one connection. The dialer does not take a
// context, so cancellation is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.ExternalServiceCall("smtp", "send", "host", s.dialer.Host, "recipients", len(msg.To), "subject", msg.Subject)
	err := s.dialer.DialAndSend(s.build(msg)...)
	logger.ExternalServiceResult("smtp", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message) []*gomail.Message {
	msgs := make([]*gomail.Message, 0, len(msg.To))
	for _, to := range msg.To {
		m := gomail.NewMessage()
		m.SetAddressHeader("From", s.fromEmail, s.fromName)
		m.SetHeader("To", to)
		m.SetHeader("Subject", msg.Subject)
		switch {
		case msg.Text != "" && msg.HTML != "":
			m.SetBody("text/plain", msg.Text)
			m.AddAlternative("text/html", msg.HTML)
		case msg.HTML != "":
			m.SetBody("text/html", msg.HTML)
		default:
			m.SetBody("text/plain", msg.Text)
		}
		msgs = append(msgs, m)
	}
	return msgs
}
