package forms

import (
	"time"

	"labforms/internal/domain"
)

// Booking form field names beyond the shared name and email.
const (
	FieldPhone   = "phone"
	FieldDate    = "date"
	FieldTime    = "time"
	FieldService = "service"
	FieldBranch  = "branch"
	FieldNotes   = "notes"
)

// BookingFields lists the booking form's inputs.
var BookingFields = []string{FieldName, FieldPhone, FieldEmail, FieldDate, FieldTime, FieldService, FieldBranch, FieldNotes}

// BookingPolicy carries the lab's scheduling rules and catalogs.
type BookingPolicy struct {
	Now           time.Time
	Location      *time.Location
	HorizonMonths int
	OpensAt       string
	ClosesAt      string
	ClosedDays    []time.Weekday
	Services      domain.Catalog
	Branches      domain.Catalog
}

// BookingRules is the appointment form rule set.
func BookingRules(p BookingPolicy) RuleSet {
	rules := Require(FieldName, FieldPhone, FieldEmail, FieldDate, FieldTime, FieldService)
	rules = append(rules,
		Rule{Field: FieldEmail, Check: Email()},
		Rule{Field: FieldPhone, Check: Phone()},
		Rule{Field: FieldDate, Check: Date()},
		Rule{Field: FieldTime, Check: Clock()},
		Rule{Field: FieldDate, Check: AppointmentDate(DatePolicy{
			Now:           p.Now,
			Location:      p.Location,
			HorizonMonths: p.HorizonMonths,
			ClosedDays:    p.ClosedDays,
		})},
		Rule{Field: FieldTime, Check: WorkingHours(p.OpensAt, p.ClosesAt)},
		Rule{Field: FieldService, Check: InCatalog(p.Services, msgUnknownSvc)},
		Rule{Field: FieldBranch, Check: InCatalog(p.Branches, msgUnknownBranch)},
	)
	return RuleSet{Form: "booking", Rules: rules}
}
