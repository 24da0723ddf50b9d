package domain

import (
	"errors"
	"net/http"
)

var (
	// ErrBotDetected signals a filled honeypot field.
	ErrBotDetected = errors.New("bot submission detected")
	// ErrRateLimited signals that the client exhausted its submission window.
	ErrRateLimited = errors.New("too many submissions")
	// ErrDeliveryFailed signals that the primary email could not be sent.
	ErrDeliveryFailed = errors.New("email delivery failed")
)

// StatusFor maps a domain error to the HTTP status the forms answer with.
// Unknown errors map to 500.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBotDetected):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
