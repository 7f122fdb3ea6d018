// Package mailer implements the outbound email collaborator.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer delivers plain-text mail. Implementations may drop mail silently
// (tests, local development).
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTP sends mail through a plain-auth SMTP relay.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// NewSMTP returns an SMTP mailer. Delivery is disabled (a NoOp is returned)
// when the host is empty, which keeps local setups working without a relay.
func NewSMTP(host, port, username, password, from string) Mailer {
	if host == "" {
		slog.Warn("mailer disabled: no SMTP host configured")
		return NoOp{}
	}
	return &SMTP{Host: host, Port: port, Username: username, Password: password, From: from}
}

// Send delivers one message. Blocking SMTP I/O honours ctx only at entry;
// net/smtp has no per-dial context hook.
func (s *SMTP) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

	msg := strings.Join([]string{
		"To: " + to,
		"From: " + s.From,
		"Subject: " + subject,
		"MIME-version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, s.From, []string{to}, []byte(msg)); err != nil {
		slog.ErrorContext(ctx, "mail delivery failed", "to", to, "subject", subject, "err", err)
		return err
	}
	return nil
}

// NoOp discards all mail.
type NoOp struct{}

// Send drops the message.
func (NoOp) Send(context.Context, string, string, string) error { return nil }

// Capture records sent mail for assertions in tests.
type Capture struct {
	Sent []CapturedMail
}

// CapturedMail is one recorded message.
type CapturedMail struct {
	To      string
	Subject string
	Body    string
}

// Send records the message.
func (c *Capture) Send(_ context.Context, to, subject, body string) error {
	c.Sent = append(c.Sent, CapturedMail{To: to, Subject: subject, Body: body})
	return nil
}
