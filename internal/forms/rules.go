package forms

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"labforms/internal/domain"
)

const (
	// DateLayout is the only accepted appointment date format.
	DateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

var (
	validate = validator.New()

	phoneStrip   = regexp.MustCompile(`[^0-9+]`)
	phonePattern = regexp.MustCompile(`^(\+967|967|0)?[1-9][0-9]{7,8}$`)
	timePattern  = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// Check inspects one sanitized value. A non-nil error carries the message
// shown to the user.
type Check func(value string) error

// Required rejects an empty value and names the field in the message.
func Required(field string) Check {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf(msgRequired, field)
		}
		return nil
	}
}

// Email accepts addresses that follow the standard email grammar.
func Email() Check {
	return func(v string) error {
		if err := validate.Var(v, "required,email"); err != nil {
			return errors.New(msgEmail)
		}
		return nil
	}
}

// NormalizePhone drops everything except digits and '+'.
func NormalizePhone(v string) string {
	return phoneStrip.ReplaceAllString(v, "")
}

// Phone accepts Yemeni numbers with an optional +967, 967 or 0 prefix.
func Phone() Check {
	return func(v string) error {
		if !phonePattern.MatchString(NormalizePhone(v)) {
			return errors.New(msgPhone)
		}
		return nil
	}
}

// Length bounds the value's length in characters. A zero min or max
// disables that bound.
func Length(min, max int, tooShort, tooLong string) Check {
	return func(v string) error {
		n := utf8.RuneCountInString(v)
		if min > 0 && n < min {
			return errors.New(tooShort)
		}
		if max > 0 && n > max {
			return errors.New(tooLong)
		}
		return nil
	}
}

// Date accepts a strict YYYY-MM-DD calendar date.
func Date() Check {
	return func(v string) error {
		d, err := time.Parse(DateLayout, v)
		if err != nil || d.Format(DateLayout) != v {
			return errors.New(msgDateFormat)
		}
		return nil
	}
}

// Clock accepts a 24-hour HH:MM time.
func Clock() Check {
	return func(v string) error {
		if !timePattern.MatchString(v) {
			return errors.New(msgTimeFormat)
		}
		return nil
	}
}

// DatePolicy decides which calendar days can be booked.
type DatePolicy struct {
	Now           time.Time
	Location      *time.Location
	HorizonMonths int
	ClosedDays    []time.Weekday
}

// AppointmentDate rejects past days, days beyond the booking horizon and
// closed weekdays. Today is bookable.
func AppointmentDate(p DatePolicy) Check {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	now := p.Now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	last := today.AddDate(0, p.HorizonMonths, 0)

	return func(v string) error {
		d, err := time.ParseInLocation(DateLayout, v, loc)
		if err != nil {
			return errors.New(msgDateFormat)
		}
		if d.Before(today) {
			return errors.New(msgDatePast)
		}
		if d.After(last) {
			return fmt.Errorf(msgDateTooFar, p.HorizonMonths)
		}
		if slices.Contains(p.ClosedDays, d.Weekday()) {
			return errors.New(msgDateClosed)
		}
		return nil
	}
}

// WorkingHours accepts times inside [start, end], bounds included. Both
// bounds use the HH:MM layout.
func WorkingHours(start, end string) Check {
	from, _ := minuteOfDay(start)
	to, _ := minuteOfDay(end)
	return func(v string) error {
		m, err := minuteOfDay(v)
		if err != nil {
			return errors.New(msgTimeFormat)
		}
		if m < from || m > to {
			return fmt.Errorf(msgOutsideHours, start, end)
		}
		return nil
	}
}

func minuteOfDay(v string) (int, error) {
	t, err := time.Parse(clockLayout, v)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// InCatalog accepts codes present in catalog.
func InCatalog(catalog domain.Catalog, msg string) Check {
	return func(v string) error {
		if _, ok := catalog.Name(v); !ok {
			return errors.New(msg)
		}
		return nil
	}
}
