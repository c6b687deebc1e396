// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package mail implements the auth.Notifier boundary.
//
// No third-party mail client is used; outbound mail goes through net/smtp
// behind the Notifier interface so a richer client can replace it without
// touching the core.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/samber/oops"

	"github.com/emberforum/ember/internal/auth"
)

// SMTPMailer sends HTML mail over plain SMTP with optional AUTH.
type SMTPMailer struct {
	addr string // host:port
	from string
	auth smtp.Auth
}

// NewSMTPMailer creates an SMTPMailer. username may be empty for
// unauthenticated relays.
func NewSMTPMailer(addr, from, username, password string) *SMTPMailer {
	var a smtp.Auth
	if username != "" {
		a = smtp.PlainAuth("", username, password, authHost(addr))
	}
	return &SMTPMailer{addr: addr, from: from, auth: a}
}

// authHost extracts the hostname PLAIN auth is scoped to. Handles IPv6
// literals like [::1]:25; a bare hostname without a port passes through.
func authHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// Send delivers one HTML message. The context is accepted for interface
// symmetry; net/smtp does not support cancellation mid-transaction.
func (m *SMTPMailer) Send(_ context.Context, to, subject, bodyHTML string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n",
		m.from, to, subject, bodyHTML,
	)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return oops.Code("MAIL_SEND_FAILED").
			With("operation", "smtp send").
			With("to", to).
			Wrap(err)
	}
	return nil
}

// LogMailer writes mail to the log instead of sending it. Used in
// development when no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

// Send logs the message instead of delivering it.
func (m *LogMailer) Send(_ context.Context, to, subject, bodyHTML string) error {
	m.logger.Info("mail (not sent, no smtp relay configured)",
		"to", to,
		"subject", subject,
		"body", bodyHTML,
	)
	return nil
}

// Compile-time interface checks.
var (
	_ auth.Notifier = (*SMTPMailer)(nil)
	_ auth.Notifier = (*LogMailer)(nil)
)
