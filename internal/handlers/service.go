// Package handlers serves the contact and booking forms. Each handler runs
// the same pipeline: method check, honeypot, sanitize, validate, rate limit
// (contact only), compose, send, respond.
package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"labforms/internal/mailer"
	"labforms/internal/metrics"
	"labforms/internal/ratelimit"
	u "labforms/internal/utils"
)

// Mail kinds, used as metric labels.
const (
	kindContact      = "contact"
	kindBooking      = "booking"
	kindConfirmation = "confirmation"
)

// FormService owns the dependencies shared by both form handlers.
type FormService struct {
	cfg      u.Config
	limiter  *ratelimit.Limiter
	sender   mailer.Sender
	metrics  *metrics.FormMetrics
	location *time.Location
	now      func() time.Time
	newRef   func() string
}

// Option customizes a FormService.
type Option func(*FormService)

// WithClock replaces the service's time source.
func WithClock(now func() time.Time) Option {
	return func(s *FormService) { s.now = now }
}

// WithReferences replaces the booking reference generator.
func WithReferences(next func() string) Option {
	return func(s *FormService) { s.newRef = next }
}

// NewFormService wires the form handlers. A nil limiter disables rate
// limiting and nil metrics are skipped.
func NewFormService(cfg u.Config, limiter *ratelimit.Limiter, sender mailer.Sender, m *metrics.FormMetrics, opts ...Option) *FormService {
	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		u.Warn("Unknown booking timezone, using UTC", "timezone", cfg.Booking.Timezone, "error", err)
		loc = time.UTC
	}
	if sender == nil {
		sender = mailer.LogSender{}
	}
	s := &FormService{
		cfg:      cfg,
		limiter:  limiter,
		sender:   sender,
		metrics:  m,
		location: loc,
		now:      time.Now,
		newRef:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// send delivers msg under the configured mail timeout and records the result.
func (s *FormService) send(ctx context.Context, kind string, msg mailer.Message) error {
	timeout := s.cfg.Mail.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.sender.Send(ctx, msg)
	s.metrics.ObserveMail(kind, err)
	return err
}

func (s *FormService) observe(form, outcome string, start time.Time) {
	s.metrics.ObserveSubmission(form, outcome)
	s.metrics.ObserveLatency(form, s.now().Sub(start).Seconds())
}

// allowMethod answers preflights and rejects anything but POST. It reports
// whether the handler should go on.
func (s *FormService) allowMethod(c *fiber.Ctx) (bool, error) {
	switch c.Method() {
	case fiber.MethodPost:
		return true, nil
	case fiber.MethodOptions:
		return false, Preflight(s.cfg.CORS.AllowOrigins)(c)
	default:
		return false, Fail(c, fiber.StatusMethodNotAllowed, MsgBadMethod)
	}
}

// ClientIP returns the caller's address. Behind a trusted proxy the first
// X-Forwarded-For hop wins, then X-Real-IP.
func ClientIP(c *fiber.Ctx, trustProxy bool) string {
	if trustProxy {
		if ips := c.IPs(); len(ips) > 0 && strings.TrimSpace(ips[0]) != "" {
			return strings.TrimSpace(ips[0])
		}
		if ip := strings.TrimSpace(c.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}

func formValue(c *fiber.Ctx) func(string) string {
	return func(key string) string { return c.FormValue(key) }
}

func requestID(c *fiber.Ctx) string {
	if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}
