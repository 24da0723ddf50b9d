package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"labforms/internal/domain"
	"labforms/internal/forms"
	"labforms/internal/mailer"
	"labforms/internal/metrics"
	u "labforms/internal/utils"
)

// HandleContact forwards a contact inquiry to the lab's inbox.
func (s *FormService) HandleContact(c *fiber.Ctx) error {
	if ok, err := s.allowMethod(c); !ok {
		return err
	}
	start := s.now()
	ip := ClientIP(c, s.cfg.Server.TrustProxy)

	if err := forms.CheckHoneypot(c.FormValue(forms.FieldHoneypot)); err != nil {
		u.Warn("Contact honeypot triggered", "ip", ip, "request_id", requestID(c))
		s.observe(kindContact, metrics.OutcomeBot, start)
		return Fail(c, domain.StatusFor(err), MsgContactBot)
	}

	v := forms.SanitizeAll(formValue(c), forms.ContactFields...)
	if err := forms.ContactRules(s.cfg.Contact.MaxMessageLength).Validate(v); err != nil {
		var fe *forms.FieldError
		if errors.As(err, &fe) {
			u.Debug("Contact validation failed", "field", fe.Field, "ip", ip)
		}
		s.observe(kindContact, metrics.OutcomeInvalid, start)
		return Fail(c, fiber.StatusBadRequest, err.Error())
	}

	if !s.limiter.Allow(c.UserContext(), ip) {
		s.observe(kindContact, metrics.OutcomeRateLimited, start)
		return Fail(c, domain.StatusFor(domain.ErrRateLimited), MsgRateLimited)
	}

	sub := domain.ContactSubmission{
		Name:    v[forms.FieldName],
		Email:   v[forms.FieldEmail],
		Subject: v[forms.FieldSubject],
		Message: v[forms.FieldMessage],
	}
	msg, err := mailer.ContactNotification(sub, s.cfg.Contact.ToEmail, s.cfg.Contact.SubjectPrefix, start.In(s.location))
	if err != nil {
		u.Error("Contact email composition failed", "email", sub.Email, "error", err)
		s.observe(kindContact, metrics.OutcomeFailed, start)
		return Fail(c, fiber.StatusInternalServerError, MsgUnexpected)
	}

	if err := s.send(c.UserContext(), kindContact, msg); err != nil {
		u.Error("Failed to send contact form email", "email", sub.Email, "ip", ip, "error", err)
		s.observe(kindContact, metrics.OutcomeFailed, start)
		return Fail(c, domain.StatusFor(domain.ErrDeliveryFailed), MsgDeliveryFailed)
	}

	u.Info("Contact form submitted", "email", sub.Email, "ip", ip, "request_id", requestID(c))
	s.observe(kindContact, metrics.OutcomeSuccess, start)
	return Success(c, MsgContactSuccess)
}
