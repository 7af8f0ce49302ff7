package admin

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/gohealthalbania/booking-api/cmd/server/internal/response"
	"github.com/gohealthalbania/booking-api/internal/store"
)

func (h *Handler) DownloadCSV(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "DownloadCSV")
	defer span.End()

	form, err := formFromContext(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("form: %s", err))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("formType", string(form)))

	data, err := h.store.ExportCSV(ctx, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to export submissions")
		return response.InternalServerError
	}

	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", store.ExportFileName(form)),
	)

	span.SetStatus(codes.Ok, "exported submissions")
	return c.Blob(http.StatusOK, "text/csv", data)
}
