// Package notification sends the storefront's transactional emails and SMS and runs admin broadcasts.
package notification

import "context"

// Email is one outgoing HTML message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers email (SMTP in production).
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// SMSSender delivers text messages (Twilio in production).
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}
