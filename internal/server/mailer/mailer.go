// Package mailer sends the account lifecycle emails (welcome and
// cancellation).
package mailer

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskmanager/internal/logging"
)

// Mailer delivers account lifecycle emails.
type Mailer interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendCancellation(ctx context.Context, email, name string) error
}

// Message is a rendered plain-text email.
type Message struct {
	To      string
	Name    string
	Subject string
	Text    string
}

func welcomeMessage(email, name string) Message {
	return Message{
		To:      email,
		Name:    name,
		Subject: "Welcome to the app!",
		Text:    fmt.Sprintf("Welcome, %s! Hope you enjoy the app.", name),
	}
}

func cancellationMessage(email, name string) Message {
	return Message{
		To:      email,
		Name:    name,
		Subject: "Cancellation confirmation",
		Text:    fmt.Sprintf("Hello, %s! This is a confirmation that you have successfully unsubscribed from our mailing list.", name),
	}
}

// LogMailer only logs the messages it would have sent. It is used when no
// email provider is configured.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(l logging.Logger) *LogMailer {
	return &LogMailer{logger: l.With("module", "mailer")}
}

func (m *LogMailer) SendWelcome(ctx context.Context, email, name string) error {
	return m.log(ctx, welcomeMessage(email, name))
}

func (m *LogMailer) SendCancellation(ctx context.Context, email, name string) error {
	return m.log(ctx, cancellationMessage(email, name))
}

func (m *LogMailer) log(ctx context.Context, msg Message) error {
	m.logger.Info(ctx, "email delivery disabled", "to", msg.To, "subject", msg.Subject)
	return nil
}
