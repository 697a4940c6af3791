package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"ontrack/pkg/config"
)

type sendGridEmailSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewSendGridEmailSender(cfg *config.Config) EmailSender {
	return &sendGridEmailSender{
		client:   sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:     cfg.EmailFrom,
		fromName: cfg.EmailFromName,
	}
}

func (s *sendGridEmailSender) SendEmail(ctx context.Context, email Email) error {
	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail(email.ToName, email.To)

	message := mail.NewSingleEmail(from, email.Subject, to, email.PlainText, email.HTML)
	if email.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail(email.ReplyToName, email.ReplyTo))
	}

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
