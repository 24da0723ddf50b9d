package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	u "labforms/internal/utils"
)

// NewSender builds the transport selected by cfg.Provider.
func NewSender(ctx context.Context, cfg u.MailConfig) (Sender, error) {
	switch cfg.Provider {
	case "", "log":
		return LogSender{}, nil
	case "sendgrid":
		s := NewSendGridSender(SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		})
		if s == nil {
			return nil, fmt.Errorf("mailer: sendgrid provider needs an API key")
		}
		return s, nil
	case "ses":
		sesCfg := SESConfig{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
			FromEmail:       cfg.FromEmail,
			FromName:        cfg.FromName,
		}
		client, err := NewSESClient(ctx, sesCfg)
		if err != nil {
			return nil, err
		}
		return NewSESSender(client, sesCfg), nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("mailer: resend provider needs an API key")
		}
		return NewResendSender(resend.NewClient(cfg.ResendAPIKey), cfg.FromEmail, cfg.FromName), nil
	case "smtp":
		s := NewSMTPSender(SMTPConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		})
		if s == nil {
			return nil, fmt.Errorf("mailer: smtp provider needs a host")
		}
		return s, nil
	default:
		return nil, fmt.Errorf("mailer: unknown provider %q", cfg.Provider)
	}
}
