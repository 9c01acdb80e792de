// Package mailer sends the contact-form email through an external SMTP relay.
package mailer

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/config"

	"github.com/wneessen/go-mail"
)

// ContactMailer delivers a contact-form submission to the site operator.
type ContactMailer interface {
	SendContact(ctx context.Context, name, phone, message string) error
}

// Mailer submits mail over authenticated STARTTLS. There is no retry and no
// persistence: a failed send surfaces to the caller.
type Mailer struct {
	host     string
	port     int
	address  string
	password string
	timeout  time.Duration
}

// New builds a Mailer from the operator's mail configuration.
func New(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.MailHost,
		port:     cfg.MailPort,
		address:  cfg.MailAddress,
		password: cfg.MailPassword,
		timeout:  10 * time.Second,
	}
}

// SendContact sends a single plaintext message to the operator's own address.
// The SMTP round trip is bounded by the mailer timeout; errors propagate
// unrecovered.
func (m *Mailer) SendContact(ctx context.Context, name, phone, message string) error {
	msg, err := m.buildMessage(name, phone, message)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.address),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("mail client setup failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail send failed: %w", err)
	}
	return nil
}

func (m *Mailer) buildMessage(name, phone, message string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.address); err != nil {
		return nil, fmt.Errorf("invalid operator address: %w", err)
	}
	if err := msg.To(m.address); err != nil {
		return nil, fmt.Errorf("invalid operator address: %w", err)
	}
	msg.Subject("New Message")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Name: %s\nPhone no.: %s\nMessage: %s", name, phone, message))
	return msg, nil
}
