package mailer

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// deliverFunc posts one message and reports the HTTP status and body.
type deliverFunc func(ctx context.Context, m *mail.SGMailV3) (int, string, error)

// SendGridMailer delivers email through the SendGrid v3 API.
type SendGridMailer struct {
	from    *mail.Email
	deliver deliverFunc
}

func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	client := sendgrid.NewSendClient(apiKey)
	return &SendGridMailer{
		from: mail.NewEmail("", from),
		deliver: func(ctx context.Context, m *mail.SGMailV3) (int, string, error) {
			resp, err := client.SendWithContext(ctx, m)
			if err != nil {
				return 0, "", err
			}
			return resp.StatusCode, resp.Body, nil
		},
	}
}

func (s *SendGridMailer) SendWelcome(ctx context.Context, email, name string) error {
	return s.send(ctx, welcomeMessage(email, name))
}

func (s *SendGridMailer) SendCancellation(ctx context.Context, email, name string) error {
	return s.send(ctx, cancellationMessage(email, name))
}

func (s *SendGridMailer) build(msg Message) *mail.SGMailV3 {
	to := mail.NewEmail(msg.Name, msg.To)
	return mail.NewSingleEmail(s.from, msg.Subject, to, msg.Text, "<p>"+html.EscapeString(msg.Text)+"</p>")
}

func (s *SendGridMailer) send(ctx context.Context, msg Message) error {
	status, body, err := s.deliver(ctx, s.build(msg))
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if status >= 300 {
		return fmt.Errorf("sendgrid: unexpected status %d: %s", status, body)
	}
	return nil
}
