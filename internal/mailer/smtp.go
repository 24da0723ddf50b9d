package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"

	u "labforms/internal/utils"
)

// SMTPConfig holds configuration for a plain SMTP relay.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPSender delivers through an SMTP relay, upgrading with STARTTLS when
// the server offers it.
type SMTPSender struct {
	cfg SMTPConfig
	now func() time.Time
}

// NewSMTPSender returns nil when no host is configured.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Host == "" {
		return nil
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg, now: time.Now}
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s == nil {
		return errors.New("mailer: smtp relay not configured")
	}
	body, err := s.build(msg)
	if err != nil {
		return errors.Wrap(err, "mailer: build smtp message")
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "mailer: dial %s", addr)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return errors.Wrap(err, "mailer: smtp handshake")
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return errors.Wrap(err, "mailer: starttls")
		}
	}
	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return errors.Wrap(err, "mailer: smtp auth")
		}
	}
	if err := c.Mail(s.cfg.FromEmail); err != nil {
		return errors.Wrap(err, "mailer: MAIL FROM")
	}
	if err := c.Rcpt(msg.To); err != nil {
		return errors.Wrapf(err, "mailer: RCPT TO %s", msg.To)
	}
	w, err := c.Data()
	if err != nil {
		return errors.Wrap(err, "mailer: DATA")
	}
	if _, err := w.Write(body); err != nil {
		return errors.Wrap(err, "mailer: write body")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "mailer: end DATA")
	}
	if err := c.Quit(); err != nil {
		u.Warn("SMTP QUIT failed after delivery", "error", err)
	}

	u.Info("Email sent via SMTP", "to", msg.To, "subject", msg.Subject, "relay", addr)
	return nil
}

// build renders msg as a multipart/alternative MIME document.
func (s *SMTPSender) build(msg Message) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	from := mail.Address{Name: s.cfg.FromName, Address: s.cfg.FromEmail}
	to := mail.Address{Name: msg.ToName, Address: msg.To}

	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", to.String())
	if msg.ReplyTo != "" {
		fmt.Fprintf(&buf, "Reply-To: %s\r\n", (&mail.Address{Address: msg.ReplyTo}).String())
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", headerSafe(msg.Subject)))
	fmt.Fprintf(&buf, "Date: %s\r\n", s.now().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: <%s@%s>\r\n", xid.New().String(), s.cfg.Host)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())

	for _, part := range []struct{ ctype, body string }{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	} {
		if part.body == "" {
			continue
		}
		pw, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.ctype},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return nil, err
		}
		if err := writeBase64Lines(pw, []byte(part.body)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBase64Lines(w io.Writer, data []byte) error {
	enc := base64.StdEncoding.EncodeToString(data)
	for len(enc) > 76 {
		if _, err := fmt.Fprintf(w, "%s\r\n", enc[:76]); err != nil {
			return err
		}
		enc = enc[76:]
	}
	_, err := fmt.Fprintf(w, "%s\r\n", enc)
	return err
}

var _ Sender = (*SMTPSender)(nil)
