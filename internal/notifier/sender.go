// Package notifier delivers outage reports by email or to the console.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"hepoutage/internal/config"

	"github.com/wneessen/go-mail"
)

// ErrSendFailed wraps every delivery failure.
var ErrSendFailed = errors.New("failed to send notification")

// smtpsPort is the implicit TLS submission port.
const smtpsPort = 465

// Sender delivers one rendered notification.
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

// SMTPSender sends plain text mail through an authenticated SMTP relay.
type SMTPSender struct {
	cfg     config.EmailConfig
	timeout time.Duration
}

// NewSMTPSender creates a sender for the given email settings.
func NewSMTPSender(cfg config.EmailConfig, timeout time.Duration) *SMTPSender {
	return &SMTPSender{
		cfg:     cfg,
		timeout: timeout,
	}
}

// Message builds the mail message without sending it.
func (s *SMTPSender) Message(subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}

	if err := msg.To(s.cfg.To); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return msg, nil
}

// Send delivers the message in a single SMTP session.
func (s *SMTPSender) Send(ctx context.Context, subject, body string) error {
	msg, err := s.Message(subject, body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	}

	if s.timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.timeout))
	}

	if s.cfg.SMTPPort == smtpsPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(s.cfg.SMTPServer, opts...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	return nil
}

// ConsoleSender writes notifications to a writer instead of mailing them.
type ConsoleSender struct {
	out io.Writer
}

// NewConsoleSender creates a sender printing to out.
func NewConsoleSender(out io.Writer) *ConsoleSender {
	return &ConsoleSender{out: out}
}

// Send prints the subject and body.
func (c *ConsoleSender) Send(_ context.Context, subject, body string) error {
	if _, err := fmt.Fprintf(c.out, "Subject: %s\n\n%s", subject, body); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	return nil
}
