package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"labforms/internal/domain"
	"labforms/internal/forms"
	"labforms/internal/mailer"
	"labforms/internal/metrics"
	u "labforms/internal/utils"
)

// HandleBooking forwards an appointment request to the lab and, when
// enabled, sends the patient a confirmation copy.
func (s *FormService) HandleBooking(c *fiber.Ctx) error {
	if ok, err := s.allowMethod(c); !ok {
		return err
	}
	start := s.now()
	ip := ClientIP(c, s.cfg.Server.TrustProxy)

	if err := forms.CheckHoneypot(c.FormValue(forms.FieldHoneypot)); err != nil {
		u.Warn("Booking honeypot triggered", "ip", ip, "request_id", requestID(c))
		s.observe(kindBooking, metrics.OutcomeBot, start)
		return Fail(c, domain.StatusFor(err), MsgBookingBot)
	}

	v := forms.SanitizeAll(formValue(c), forms.BookingFields...)
	if strings.TrimSpace(v[forms.FieldBranch]) == "" {
		v[forms.FieldBranch] = s.cfg.Booking.DefaultBranch
	}

	policy := s.policy(start)
	if err := forms.BookingRules(policy).Validate(v); err != nil {
		u.Debug("Booking validation failed", "error", err.Error(), "ip", ip)
		s.observe(kindBooking, metrics.OutcomeInvalid, start)
		return Fail(c, fiber.StatusBadRequest, err.Error())
	}

	sub := domain.BookingSubmission{
		Reference: s.newRef(),
		Name:      v[forms.FieldName],
		Phone:     v[forms.FieldPhone],
		Email:     v[forms.FieldEmail],
		Date:      v[forms.FieldDate],
		Time:      v[forms.FieldTime],
		Service:   v[forms.FieldService],
		Branch:    v[forms.FieldBranch],
		Notes:     v[forms.FieldNotes],
	}
	sub.ServiceName, _ = policy.Services.Name(sub.Service)
	sub.BranchName, _ = policy.Branches.Name(sub.Branch)

	msg, err := mailer.BookingNotification(sub, s.cfg.Booking.ToEmail, s.cfg.Booking.SubjectPrefix, start.In(s.location))
	if err != nil {
		u.Error("Booking email composition failed", "reference", sub.Reference, "error", err)
		s.observe(kindBooking, metrics.OutcomeFailed, start)
		return Fail(c, fiber.StatusInternalServerError, MsgUnexpected)
	}
	if err := s.send(c.UserContext(), kindBooking, msg); err != nil {
		u.Error("Failed to send booking email", "reference", sub.Reference, "email", sub.Email, "date", sub.Date, "time", sub.Time, "error", err)
		s.observe(kindBooking, metrics.OutcomeFailed, start)
		return Fail(c, domain.StatusFor(domain.ErrDeliveryFailed), MsgDeliveryFailed)
	}

	if s.cfg.Booking.SendConfirmation {
		if err := s.confirm(c, sub); err != nil && s.cfg.Booking.RequireConfirmationDelivery {
			s.observe(kindBooking, metrics.OutcomeFailed, start)
			return Fail(c, domain.StatusFor(domain.ErrDeliveryFailed), MsgDeliveryFailed)
		}
	}

	u.Info("Appointment booked", "reference", sub.Reference, "email", sub.Email, "date", sub.Date, "time", sub.Time, "branch", sub.Branch, "ip", ip)
	s.observe(kindBooking, metrics.OutcomeSuccess, start)
	return Success(c, MsgBookingSuccess)
}

// confirm sends the patient's copy. Failures are logged and returned.
func (s *FormService) confirm(c *fiber.Ctx, sub domain.BookingSubmission) error {
	msg, err := mailer.BookingConfirmation(sub)
	if err == nil {
		err = s.send(c.UserContext(), kindConfirmation, msg)
	}
	if err != nil {
		u.Warn("Booking confirmation not delivered", "reference", sub.Reference, "email", sub.Email, "error", err)
	}
	return err
}

func (s *FormService) policy(now time.Time) forms.BookingPolicy {
	hours := s.cfg.Booking.WorkingHours
	closed := make([]time.Weekday, 0, len(hours.ClosedDays))
	for _, d := range hours.ClosedDays {
		closed = append(closed, time.Weekday(d))
	}
	return forms.BookingPolicy{
		Now:           now,
		Location:      s.location,
		HorizonMonths: s.cfg.Booking.HorizonMonths,
		OpensAt:       hours.Start,
		ClosesAt:      hours.End,
		ClosedDays:    closed,
		Services:      domain.Catalog(s.cfg.Booking.Services),
		Branches:      domain.Catalog(s.cfg.Booking.Branches),
	}
}
