package mailer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"

	u "labforms/internal/utils"
)

// ResendSender sends emails through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender returns nil for a nil client.
func NewResendSender(client *resend.Client, fromEmail, fromName string) *ResendSender {
	if client == nil {
		return nil
	}
	return &ResendSender{client: client, from: formatAddress(fromName, fromEmail)}
}

// Send implements Sender.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if s == nil || s.client == nil {
		return errors.New("mailer: resend client not configured")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return errors.Wrapf(err, "mailer: resend send to %s failed", msg.To)
	}

	u.Info("Email sent via Resend", "to", msg.To, "subject", msg.Subject, "id", sent.Id)
	return nil
}

var _ Sender = (*ResendSender)(nil)
