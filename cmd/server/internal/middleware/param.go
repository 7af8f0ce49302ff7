package middleware

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/gohealthalbania/booking-api/cmd/server/internal/response"
	"github.com/gohealthalbania/booking-api/internal/store"
)

// Resolves the form type named by the `paramName` path param and stores it on
// the request context under `contextName`. Unknown form types end the request
// with a not found response.
func ResolveFormType(paramName string, contextName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, span := tracer.Start(c.Request().Context(), "ResolveFormType")
			defer span.End()

			raw := c.Param(paramName)

			span.SetAttributes(
				attribute.String("paramName", paramName),
				attribute.String("contextName", contextName),
				attribute.String("formType.raw", raw),
			)

			form, err := store.ParseFormType(raw)
			if err != nil {
				span.RecordError(err)
				// ok because Ok > Error
				span.SetStatus(codes.Ok, "unknown form type")
				return response.NotFoundError
			}

			span.SetAttributes(attribute.String("formType.parsed", string(form)))
			c.Set(contextName, form)

			span.SetStatus(codes.Ok, "resolved form type")
			return next(c)
		}
	}
}
