// Package mailer composes the lab's notification emails and hands them to a
// delivery transport. Every transport implements Sender and makes exactly one
// attempt per call.
package mailer

import (
	"context"
	"net/mail"
	"strings"
)

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a composed email. From is set by the transport.
type Message struct {
	To      string
	ToName  string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// headerSafe folds line breaks so a value cannot start a new header line.
func headerSafe(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// formatAddress renders a From value, RFC 2047 encoding a non-ASCII name.
func formatAddress(name, email string) string {
	if name == "" {
		return email
	}
	return (&mail.Address{Name: name, Address: email}).String()
}
