package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"clubsphere-backend/internal/logger"
)

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, fromEmail, fromName string) *ResendSender {
	from := fromEmail
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromEmail)
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	for _, params := range s.build(msg) {
		logger.ExternalServiceCall("resend", "send", "to", params.To, "subject", params.Subject)
		sent, err := s.client.Emails.SendWithContext(ctx, params)
		logger.ExternalServiceResult("resend", "send", err)
		if err != nil {
			return fmt.Errorf("resend send failed: %w", err)
		}
		logger.Debug("Email queued", "provider", "resend", "message_id", sent.Id)
	}
	return nil
}

func (s *ResendSender) build(msg Message) []*resend.SendEmailRequest {
	reqs := make([]*resend.SendEmailRequest, 0, len(msg.To))
	for _, to := range msg.To {
		reqs = append(reqs, &resend.SendEmailRequest{
			From:    s.from,
			To:      []string{to},
			Subject: msg.Subject,
			Text:    msg.Text,
			Html:    msg.HTML,
		})
	}
	return reqs
}
