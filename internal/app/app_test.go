package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labforms/internal/handlers"
	"labforms/internal/mailer"
	u "labforms/internal/utils"
)

type captureSender struct {
	mu   sync.Mutex
	msgs []mailer.Message
}

func (s *captureSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	s.mu.Unlock()
	return nil
}

func (s *captureSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

func testConfig() u.Config {
	cfg := u.DefaultConfig()
	cfg.Booking.Services = u.DefaultServices()
	cfg.Booking.Branches = u.DefaultBranches()
	return cfg
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) (*http.Response, handlers.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://tadamun-labs.com")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body handlers.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func contactForm() url.Values {
	return url.Values{
		"name":    {"Amal Saeed"},
		"email":   {"amal@example.com"},
		"subject": {"Opening hours"},
		"message": {"Are you open on Thursday evening?"},
	}
}

// nextOpenDay returns tomorrow in Taiz, skipping Fridays.
func nextOpenDay(t *testing.T) string {
	aden, err := time.LoadLocation("Asia/Aden")
	require.NoError(t, err)
	d := time.Now().In(aden).AddDate(0, 0, 1)
	if d.Weekday() == time.Friday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func TestContactRoutes(t *testing.T) {
	sender := &captureSender{}
	app := SetupApp(testConfig(), sender)

	for _, path := range []string{"/v1/contact", "/contact.php"} {
		resp, body := postForm(t, app, path, contactForm())
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "success", body.Status)
		assert.Equal(t, handlers.MsgContactSuccess, body.Message)

		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
		assert.Equal(t, "1; mode=block", resp.Header.Get("X-XSS-Protection"))
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
		assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	}
	assert.Equal(t, 2, sender.count())
}

func TestBookingRoutes(t *testing.T) {
	sender := &captureSender{}
	app := SetupApp(testConfig(), sender)

	form := url.Values{
		"name":    {"Amal Saeed"},
		"phone":   {"0771234567"},
		"email":   {"amal@example.com"},
		"date":    {nextOpenDay(t)},
		"time":    {"10:00"},
		"service": {"vitamins"},
	}
	for _, path := range []string{"/v1/booking", "/book-a-table.php"} {
		resp, body := postForm(t, app, path, form)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Equal(t, handlers.MsgBookingSuccess, body.Message)
	}
	assert.Equal(t, 4, sender.count(), "lab notification plus patient copy per booking")
}

func TestContactRateLimitAcrossRoutes(t *testing.T) {
	app := SetupApp(testConfig(), &captureSender{})

	paths := []string{"/v1/contact", "/contact.php"}
	for i := 0; i < 5; i++ {
		resp, _ := postForm(t, app, paths[i%2], contactForm())
		require.Equal(t, fiber.StatusOK, resp.StatusCode, "attempt %d", i+1)
	}
	resp, body := postForm(t, app, "/v1/contact", contactForm())
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, handlers.MsgRateLimited, body.Message)
}

func TestRateLimitDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimiter.Enabled = false
	app := SetupApp(cfg, &captureSender{})

	for i := 0; i < 7; i++ {
		resp, _ := postForm(t, app, "/v1/contact", contactForm())
		require.Equal(t, fiber.StatusOK, resp.StatusCode, "attempt %d", i+1)
	}
}

func TestPreflightAndMethods(t *testing.T) {
	app := SetupApp(testConfig(), &captureSender{})

	resp, err := app.Test(httptest.NewRequest(http.MethodOptions, "/v1/booking", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Empty(t, raw)
	assert.Equal(t, "POST, GET, OPTIONS", resp.Header.Get(fiber.HeaderAccessControlAllowMethods))

	resp, err = app.Test(httptest.NewRequest(http.MethodPut, "/contact.php", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
}

func TestNotFoundIsJSON(t *testing.T) {
	app := SetupApp(testConfig(), &captureSender{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body handlers.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, handlers.Response{Status: "error", Message: handlers.MsgNotFound}, body)
}

func TestPanicReturnsGenericError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	RegisterMiddleware(app, testConfig())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("template exploded")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body handlers.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, handlers.Response{Status: "error", Message: handlers.MsgUnexpected}, body)
}

func TestOpsRoutes(t *testing.T) {
	app := SetupApp(testConfig(), &captureSender{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ops/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, _ = postForm(t, app, "/v1/contact", contactForm())

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ops/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `labforms_submissions_total{form="contact",outcome="success"} 1`)
	assert.Contains(t, string(raw), `labforms_mail_sent_total{kind="contact",status="sent"} 1`)
}

func TestFormRateLimiter(t *testing.T) {
	cfg := testConfig()
	assert.NotNil(t, formRateLimiter(cfg))

	cfg.RateLimiter.MaxAttempts = 0
	assert.Nil(t, formRateLimiter(cfg))
}
