package app

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"labforms/internal/handlers"
	"labforms/internal/mailer"
	"labforms/internal/metrics"
	u "labforms/internal/utils"
)

// SetupApp creates and configures a new Fiber app instance
func SetupApp(cfg u.Config, sender mailer.Sender) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:               cfg.Server.Prefork,
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	RegisterMiddleware(app, cfg)
	RegisterRoutes(app, cfg, sender)

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	return app
}

// errorHandler renders every error, recovered panics included, as the JSON
// envelope. Server errors hide their cause behind the generic message.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := handlers.MsgUnexpected

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		switch {
		case code == fiber.StatusNotFound:
			msg = handlers.MsgNotFound
		case code == fiber.StatusMethodNotAllowed:
			msg = handlers.MsgBadMethod
		case code < fiber.StatusInternalServerError:
			msg = e.Message
		}
	}

	if code >= fiber.StatusInternalServerError {
		u.Error("Request failed", "path", c.Path(), "status", code, "error", err)
	} else {
		u.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)
	}

	return handlers.Fail(c, code, msg)
}

// RegisterRoutes mounts all route handlers to the app
func RegisterRoutes(app *fiber.App, cfg u.Config, sender mailer.Sender) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// One service instance so both forms share the limiter and counters.
	svc := handlers.NewFormService(cfg, formRateLimiter(cfg), sender, metrics.NewFormMetrics(reg))

	v1 := app.Group("/v1")
	v1.All("/contact", svc.HandleContact)
	v1.All("/booking", svc.HandleBooking)

	// Paths the existing site markup posts to.
	app.All("/contact.php", svc.HandleContact)
	app.All("/book-a-table.php", svc.HandleBooking)

	ops := app.Group("/ops")
	ops.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	ops.Get("/monitor", monitor.New(monitor.Config{Title: "labforms"}))
}
