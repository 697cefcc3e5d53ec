package report

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/oggyb/eventswipe/internal/config"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
)

// Message is a plain-text e-mail.
type Message struct {
	To      string
	Subject string
	Body    string
	ReplyTo string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends through the configured SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password),
		from:   cfg.Mail.From,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetBody("text/plain", msg.Body)

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(gm) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %v: %w", err, svcErr.ErrUnavailable)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
