package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends a single transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, plain, html string) error
}

type SendgridMailer struct {
	APIKey      string
	FromName    string
	FromAddress string
}

func (m *SendgridMailer) Send(ctx context.Context, to, subject, plain, html string) error {
	from := mail.NewEmail(m.FromName, m.FromAddress)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), plain, html)

	client := sendgrid.NewSendClient(m.APIKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if response.StatusCode >= 300 {
		log.Printf("sendgrid rejected message to %s: %d %s", to, response.StatusCode, response.Body)
		return fmt.Errorf("send email: status %d", response.StatusCode)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used when no
// SendGrid key is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, plain, _ string) error {
	log.Printf("mail to %s: %s: %s", to, subject, plain)
	return nil
}
