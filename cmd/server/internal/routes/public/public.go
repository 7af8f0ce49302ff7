// Package public serves the unauthenticated booking submission endpoint.
package public

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/gohealthalbania/booking-api/internal/captcha"
	"github.com/gohealthalbania/booking-api/internal/notify"
	"github.com/gohealthalbania/booking-api/internal/store"
)

const name = "github.com/gohealthalbania/booking-api/cmd/server/routes/public"

var tracer = otel.Tracer(name)

type Handler struct {
	store    store.Store
	verifier captcha.Verifier
	notifier notify.Notifier
}

func NewHandler(st store.Store, verifier captcha.Verifier, notifier notify.Notifier) Handler {
	return Handler{
		store:    st,
		verifier: verifier,
		notifier: notifier,
	}
}

func (h *Handler) AddRoutes(e *echo.Echo) {
	e.POST("/send-email/", h.SendEmail)
}
