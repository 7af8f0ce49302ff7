package public

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/gohealthalbania/booking-api/internal/form"
	"github.com/gohealthalbania/booking-api/internal/logger"
	"github.com/gohealthalbania/booking-api/internal/notify"
	"github.com/gohealthalbania/booking-api/internal/types"
)

const successMessage = "Email inviata con successo!"

func (h *Handler) SendEmail(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "SendEmail")
	defer span.End()

	l := logger.Logger

	span.AddEvent("received booking submission")

	var rdata types.SubmissionRequest
	err := c.Bind(&rdata)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to bind request data")
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("failed to parse request data"),
		)
	}

	// Real clients never fill the hidden field. Answer with the genuine
	// success body so a bot learns nothing from the response.
	if rdata.Website != "" {
		span.AddEvent("honeypot triggered")
		span.SetStatus(codes.Ok, "absorbed spam submission")
		l.InfoContext(ctx, "spam submission absorbed via honeypot")
		return c.JSON(http.StatusOK, types.MessageResponse{Message: successMessage})
	}

	if rdata.RecaptchaToken == "" {
		span.SetStatus(codes.Ok, "missing captcha token")
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("reCAPTCHA token is missing"),
		)
	}

	valid, err := h.verifier.Verify(ctx, rdata.RecaptchaToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to verify captcha token")
		l.ErrorContext(ctx, "captcha verification unavailable", "error", err)
		valid = false
	}
	if !valid {
		span.AddEvent("captcha rejected")
		span.SetStatus(codes.Ok, "rejected submission")
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("reCAPTCHA verification failed. Please try again."),
		)
	}

	formType, rec := form.Normalize(&rdata, time.Now())

	span.SetAttributes(attribute.String("formType", string(formType)))

	msg := notify.BuildMessage(formType, rec)

	// Persist and notify concurrently. One of the two failing is tolerated
	// and logged; the submission is only reported failed when both fail.
	appendErrCh := make(chan error, 1)
	sendErrCh := make(chan error, 1)

	go func() {
		_, err := h.store.Append(ctx, formType, rec)
		appendErrCh <- err
	}()
	go func() {
		sendErrCh <- h.notifier.Send(ctx, msg)
	}()

	appendErr := <-appendErrCh
	sendErr := <-sendErrCh

	if appendErr != nil {
		span.RecordError(appendErr)
		l.ErrorContext(ctx, "failed to store submission", "formType", formType, "error", appendErr)
	}
	if sendErr != nil {
		span.RecordError(sendErr)
		l.ErrorContext(ctx, "failed to send notification email", "formType", formType, "error", sendErr)
	}

	if appendErr != nil && sendErr != nil {
		span.SetStatus(codes.Error, "failed to store and notify")
		return echo.NewHTTPError(
			http.StatusInternalServerError,
			types.StringError("Errore durante l'elaborazione della richiesta"),
		)
	}

	span.SetStatus(codes.Ok, "accepted submission")
	return c.JSON(http.StatusOK, types.MessageResponse{Message: successMessage})
}
