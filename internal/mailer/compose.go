package mailer

import (
	"bytes"
	"embed"
	"html"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"labforms/internal/domain"
)

const (
	// LabName signs every email.
	LabName = "مختبرات التضامن الدولية"

	confirmationSubject = "تأكيد حجز موعد - " + LabName
	stampLayout         = "2006-01-02 15:04:05"
)

//go:embed templates
var templateFS embed.FS

// Field values reaching the templates were escaped by forms.Sanitize, so the
// HTML templates mark them safe instead of escaping them again.
var (
	htmlTemplates = template.Must(template.New("").Funcs(template.FuncMap{
		"safe": func(s string) template.HTML { return template.HTML(s) },
		"nl2br": func(s string) template.HTML {
			return template.HTML(strings.ReplaceAll(s, "\n", "<br>\n"))
		},
	}).ParseFS(templateFS, "templates/*.html"))

	textTemplates = texttemplate.Must(texttemplate.New("").Funcs(texttemplate.FuncMap{
		"plain": html.UnescapeString,
	}).ParseFS(templateFS, "templates/*.txt"))
)

type contactView struct {
	domain.ContactSubmission
	Lab    string
	SentAt string
}

type bookingView struct {
	domain.BookingSubmission
	Lab      string
	BookedAt string
}

// ContactNotification builds the staff email for a contact inquiry. Replies
// go to the submitter.
func ContactNotification(sub domain.ContactSubmission, to, subjectPrefix string, sentAt time.Time) (Message, error) {
	view := contactView{ContactSubmission: sub, Lab: LabName, SentAt: sentAt.Format(stampLayout)}
	return render("contact_notification", view, Message{
		To:      to,
		ReplyTo: sub.Email,
		Subject: headerSafe(subjectPrefix + html.UnescapeString(sub.Subject)),
	})
}

// BookingNotification builds the staff email for an appointment request.
func BookingNotification(sub domain.BookingSubmission, to, subjectPrefix string, bookedAt time.Time) (Message, error) {
	view := bookingView{BookingSubmission: sub, Lab: LabName, BookedAt: bookedAt.Format(stampLayout)}
	subject := subjectPrefix + html.UnescapeString(sub.Name) + " - " + sub.Date + " " + sub.Time
	return render("booking_notification", view, Message{
		To:      to,
		ReplyTo: sub.Email,
		Subject: headerSafe(subject),
	})
}

// BookingConfirmation builds the patient's copy of an appointment request.
func BookingConfirmation(sub domain.BookingSubmission) (Message, error) {
	view := bookingView{BookingSubmission: sub, Lab: LabName}
	return render("booking_confirmation", view, Message{
		To:      sub.Email,
		ToName:  headerSafe(html.UnescapeString(sub.Name)),
		Subject: confirmationSubject,
	})
}

func render(name string, view any, msg Message) (Message, error) {
	var body bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&body, name+".html", view); err != nil {
		return Message{}, err
	}
	msg.HTML = body.String()

	body.Reset()
	if err := textTemplates.ExecuteTemplate(&body, name+".txt", view); err != nil {
		return Message{}, err
	}
	msg.Text = body.String()
	return msg, nil
}
