// Package email delivers notification.Email messages over SMTP with gomail.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/willowtrellis/farmstand-api/internal/application/notification"
	"github.com/willowtrellis/farmstand-api/pkg/config"
)

var _ notification.Mailer = (*SMTPMailer)(nil)

// dialer is the part of *gomail.Dialer the mailer uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer opens one SMTP connection per message.
type SMTPMailer struct {
	from   string
	dialer dialer
}

// NewSMTPMailer builds a mailer from cfg. Port 465 uses implicit TLS, other ports STARTTLS
// when the server offers it.
func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Send delivers msg as an HTML email. gomail has no context support; ctx is only
// checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg notification.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(buildMessage(m.from, msg)); err != nil {
		return fmt.Errorf("smtp: send to %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(from string, msg notification.Email) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)
	return gm
}
