package mailer

import (
	"context"

	u "labforms/internal/utils"
)

// LogSender logs messages instead of delivering them. It backs the "log"
// provider used in development.
type LogSender struct{}

// Send implements Sender.
func (LogSender) Send(_ context.Context, msg Message) error {
	u.Info("Email not delivered (log provider)", "to", msg.To, "reply_to", msg.ReplyTo, "subject", msg.Subject)
	return nil
}

var _ Sender = LogSender{}
