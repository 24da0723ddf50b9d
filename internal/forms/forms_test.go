package forms

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labforms/internal/domain"
)

var aden = time.FixedZone("Asia/Aden", 3*60*60)

// Wednesday 2026-01-07, mid-morning in Taiz.
var testNow = time.Date(2026, time.January, 7, 10, 30, 0, 0, aden)

func testBookingPolicy() BookingPolicy {
	return BookingPolicy{
		Now:           testNow,
		Location:      aden,
		HorizonMonths: 3,
		OpensAt:       "07:00",
		ClosesAt:      "22:00",
		ClosedDays:    []time.Weekday{time.Friday},
		Services:      domain.Catalog{"blood_tests": "تحاليل الدم الشاملة", "other": "أخرى"},
		Branches:      domain.Catalog{"main": "الفرع الرئيسي - تعز", "hawban": "فرع الحوبان"},
	}
}

func validBooking() Values {
	return Values{
		FieldName:    "Amal Saeed",
		FieldPhone:   "+967 771 234 567",
		FieldEmail:   "amal@example.com",
		FieldDate:    "2026-01-08",
		FieldTime:    "09:15",
		FieldService: "blood_tests",
		FieldBranch:  "main",
	}
}

func validContact() Values {
	return Values{
		FieldName:    "Amal",
		FieldEmail:   "amal@example.com",
		FieldSubject: "Opening hours",
		FieldMessage: "Are you open on holidays?",
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"<b>bold</b> text", "bold text"},
		{"a & b", "a &amp; b"},
		{"<script>alert(1)</script>hi", "hi"},
		{"x < y", "x &lt; y"},
		{"line1\r\nline2", "line1\nline2"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Sanitize(tc.in), "input %q", tc.in)
	}
}

func TestSanitizeAll(t *testing.T) {
	raw := map[string]string{"name": " <i>Amal</i> ", "email": "a@b.co"}
	v := SanitizeAll(func(k string) string { return raw[k] }, "name", "email", "missing")
	assert.Equal(t, "Amal", v["name"])
	assert.Equal(t, "a@b.co", v["email"])
	assert.Equal(t, "", v["missing"])
}

func TestContactRules_MissingFieldNamesField(t *testing.T) {
	rs := ContactRules(5000)
	for _, field := range ContactFields {
		v := validContact()
		v[field] = "   "
		err := rs.Validate(v)
		var fe *FieldError
		require.ErrorAs(t, err, &fe, field)
		assert.Equal(t, field, fe.Field)
		assert.Contains(t, fe.Message, field)
	}
}

func TestContactRules(t *testing.T) {
	rs := ContactRules(20)
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"bad email", FieldEmail, "not-an-email", msgEmail},
		{"short name", FieldName, "A", msgNameShort},
		{"long name", FieldName, strings.Repeat("a", 101), msgNameLong},
		{"short subject", FieldSubject, "Hey", msgSubjectShort},
		{"long subject", FieldSubject, strings.Repeat("s", 201), msgSubjectLong},
		{"long message", FieldMessage, strings.Repeat("m", 21), "الرسالة طويلة جداً. الحد الأقصى 20 حرف."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := validContact()
			v[tc.field] = tc.value
			err := rs.Validate(v)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}

	assert.NoError(t, ContactRules(5000).Validate(validContact()))
}

func TestContactRules_NameCountsCharactersNotBytes(t *testing.T) {
	v := validContact()
	v[FieldName] = "علي"
	assert.NoError(t, ContactRules(5000).Validate(v))
}

func TestContactRules_FirstFailureWins(t *testing.T) {
	v := validContact()
	v[FieldEmail] = "bad"
	v[FieldName] = "A"
	err := ContactRules(5000).Validate(v)
	require.Error(t, err)
	assert.Equal(t, msgEmail, err.Error())
}

func TestPhone(t *testing.T) {
	check := Phone()
	for _, ok := range []string{"+967771234567", "967771234567", "0771234567", "077123456", "771234567", "+967 77-123-4567"} {
		assert.NoError(t, check(ok), ok)
	}
	for _, bad := range []string{"123", "", "+96707712345", "0012345678", "+9677712345678901"} {
		assert.Error(t, check(bad), bad)
	}
}

func TestDateAndClock(t *testing.T) {
	date := Date()
	assert.NoError(t, date("2026-02-28"))
	assert.Error(t, date("2026-02-30"))
	assert.Error(t, date("2026-2-3"))
	assert.Error(t, date("08/01/2026"))

	clock := Clock()
	assert.NoError(t, clock("07:00"))
	assert.NoError(t, clock("7:05"))
	assert.NoError(t, clock("23:59"))
	assert.Error(t, clock("24:00"))
	assert.Error(t, clock("12:60"))
	assert.Error(t, clock("noon"))
}

func TestAppointmentDate(t *testing.T) {
	check := AppointmentDate(DatePolicy{
		Now:           testNow,
		Location:      aden,
		HorizonMonths: 3,
		ClosedDays:    []time.Weekday{time.Friday},
	})

	assert.NoError(t, check("2026-01-07"), "today is bookable")
	assert.NoError(t, check("2026-04-07"), "last day of the horizon")

	err := check("2026-01-06")
	require.Error(t, err)
	assert.Equal(t, msgDatePast, err.Error())

	err = check("2026-05-07")
	require.Error(t, err)
	assert.Equal(t, "لا يمكن حجز موعد أكثر من 3 أشهر مقدماً.", err.Error())

	assert.Error(t, check("2026-04-08"))

	err = check("2026-01-09")
	require.Error(t, err)
	assert.Equal(t, msgDateClosed, err.Error())
}

func TestAppointmentDate_TodayFollowsClinicTimezone(t *testing.T) {
	// 22:30 UTC on the 6th is already the 7th in Taiz.
	check := AppointmentDate(DatePolicy{
		Now:           time.Date(2026, time.January, 6, 22, 30, 0, 0, time.UTC),
		Location:      aden,
		HorizonMonths: 3,
	})
	assert.Error(t, check("2026-01-06"))
	assert.NoError(t, check("2026-01-07"))
}

func TestWorkingHours_InclusiveBounds(t *testing.T) {
	check := WorkingHours("07:00", "22:00")
	assert.NoError(t, check("07:00"))
	assert.NoError(t, check("22:00"))
	assert.NoError(t, check("13:45"))

	err := check("06:59")
	require.Error(t, err)
	assert.Equal(t, "ساعات العمل من 07:00 إلى 22:00.", err.Error())
	assert.Error(t, check("22:01"))
}

func TestBookingRules(t *testing.T) {
	rs := BookingRules(testBookingPolicy())
	require.NoError(t, rs.Validate(validBooking()))

	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"missing phone", FieldPhone, "", "الحقل 'phone' مطلوب."},
		{"bad phone", FieldPhone, "123", msgPhone},
		{"bad date", FieldDate, "2026-13-01", msgDateFormat},
		{"bad time", FieldTime, "9am", msgTimeFormat},
		{"past date", FieldDate, "2025-12-31", msgDatePast},
		{"closed day", FieldDate, "2026-01-09", msgDateClosed},
		{"too early", FieldTime, "06:59", "ساعات العمل من 07:00 إلى 22:00."},
		{"unknown service", FieldService, "xray", msgUnknownSvc},
		{"unknown branch", FieldBranch, "aden", msgUnknownBranch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := validBooking()
			v[tc.field] = tc.value
			err := rs.Validate(v)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.want, fe.Message)
		})
	}
}

func TestBookingRules_ClosedDayFailsEvenWhenOtherwiseValid(t *testing.T) {
	v := validBooking()
	v[FieldDate] = "2026-01-09"
	v[FieldTime] = "10:00"
	err := BookingRules(testBookingPolicy()).Validate(v)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldDate, fe.Field)
}

func TestCheckHoneypot(t *testing.T) {
	assert.NoError(t, CheckHoneypot(""))
	for _, v := range []string{"x", " ", "http://spam.example"} {
		err := CheckHoneypot(v)
		assert.True(t, errors.Is(err, domain.ErrBotDetected), v)
	}
}
