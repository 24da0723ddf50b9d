package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// User-facing response messages.
const (
	MsgContactSuccess = "تم إرسال رسالتك بنجاح. سنتواصل معك قريباً."
	MsgBookingSuccess = "تم حجز موعدك بنجاح. سنتواصل معك لتأكيد الموعد."
	MsgContactBot     = "تم اكتشاف محاولة إرسال غير مشروعة."
	MsgBookingBot     = "تم اكتشاف محاولة حجز غير مشروعة."
	MsgRateLimited    = "تم تجاوز الحد المسموح من المحاولات. يرجى المحاولة لاحقاً."
	MsgDeliveryFailed = "فشل في إرسال البريد الإلكتروني. يرجى المحاولة لاحقاً."
	MsgUnexpected     = "حدث خطأ غير متوقع. يرجى المحاولة لاحقاً."
	MsgBadMethod      = "طريقة الطلب غير صحيحة."
	MsgNotFound       = "الصفحة المطلوبة غير موجودة."
)

const (
	statusSuccess = "success"
	statusError   = "error"

	corsMethods = "POST, GET, OPTIONS"
	corsHeaders = "Content-Type"
)

// Response is the body every form request ends with.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Success writes a 200 success envelope.
func Success(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusOK).JSON(Response{Status: statusSuccess, Message: msg})
}

// Fail writes an error envelope with code.
func Fail(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(Response{Status: statusError, Message: msg})
}

// Preflight answers a CORS preflight with 200 and no body.
func Preflight(allowOrigins string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if origin := allowedOrigin(allowOrigins, c.Get(fiber.HeaderOrigin)); origin != "" {
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		}
		c.Set(fiber.HeaderAccessControlAllowMethods, corsMethods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, corsHeaders)
		c.Status(fiber.StatusOK)
		return nil
	}
}

func allowedOrigin(allowOrigins, origin string) string {
	if allowOrigins == "" || allowOrigins == "*" {
		return "*"
	}
	for _, o := range strings.Split(allowOrigins, ",") {
		if strings.TrimSpace(o) == origin && origin != "" {
			return origin
		}
	}
	return ""
}
