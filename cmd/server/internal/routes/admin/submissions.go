package admin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	srverr "github.com/gohealthalbania/booking-api/cmd/server/internal/error"
	"github.com/gohealthalbania/booking-api/cmd/server/internal/response"
	"github.com/gohealthalbania/booking-api/internal/store"
	"github.com/gohealthalbania/booking-api/internal/types"
)

type listRequest struct {
	Search    string `query:"search"`
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"    validate:"omitempty,oneof=asc desc"`
}

func formFromContext(c echo.Context) (store.FormType, error) {
	form, ok := c.Get("form").(store.FormType)
	if !ok {
		return "", srverr.ErrTypeAssertMismatch
	}
	return form, nil
}

func (h *Handler) ListSubmissions(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "ListSubmissions")
	defer span.End()

	form, err := formFromContext(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("form: %s", err))
		return response.InternalServerError
	}

	var rdata listRequest
	err = c.Bind(&rdata)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to bind request data")
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("failed to parse request data"),
		)
	}

	err = c.Validate(rdata)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to validate request data")
		return echo.NewHTTPError(http.StatusBadRequest, types.ValidationError(err))
	}

	span.SetAttributes(
		attribute.String("formType", string(form)),
		attribute.String("search", rdata.Search),
		attribute.Int("page", rdata.Page),
	)

	result, err := h.store.List(ctx, form, store.ListQuery{
		Search:    rdata.Search,
		SortBy:    rdata.SortBy,
		SortOrder: rdata.SortOrder,
		Page:      rdata.Page,
		Limit:     rdata.Limit,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list submissions")
		return response.InternalServerError
	}

	span.SetStatus(codes.Ok, "listed submissions")
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetSubmission(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "GetSubmission")
	defer span.End()

	form, err := formFromContext(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("form: %s", err))
		return response.InternalServerError
	}

	id := c.Param("id")

	span.SetAttributes(
		attribute.String("formType", string(form)),
		attribute.String("id", id),
	)

	rec, err := h.store.Get(ctx, form, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			span.SetStatus(codes.Ok, "submission not found")
			return response.NotFoundError
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get submission")
		return response.InternalServerError
	}

	span.SetStatus(codes.Ok, "got submission")
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateSubmission(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "UpdateSubmission")
	defer span.End()

	form, err := formFromContext(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("form: %s", err))
		return response.InternalServerError
	}

	id := c.Param("id")

	span.SetAttributes(
		attribute.String("formType", string(form)),
		attribute.String("id", id),
	)

	var fields map[string]string
	err = c.Bind(&fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to bind request data")
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("failed to parse request data"),
		)
	}

	rec, err := h.store.Update(ctx, form, id, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			span.SetStatus(codes.Ok, "submission not found")
			return response.NotFoundError
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update submission")
		return response.InternalServerError
	}

	span.SetStatus(codes.Ok, "updated submission")
	return c.JSON(http.StatusOK, types.RecordResponse{
		Message: "Submission updated successfully",
		Data:    rec,
	})
}

func (h *Handler) DeleteSubmission(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "DeleteSubmission")
	defer span.End()

	form, err := formFromContext(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("form: %s", err))
		return response.InternalServerError
	}

	id := c.Param("id")

	span.SetAttributes(
		attribute.String("formType", string(form)),
		attribute.String("id", id),
	)

	rec, err := h.store.Delete(ctx, form, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			span.SetStatus(codes.Ok, "submission not found")
			return response.NotFoundError
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete submission")
		return response.InternalServerError
	}

	span.SetStatus(codes.Ok, "deleted submission")
	return c.JSON(http.StatusOK, types.RecordResponse{
		Message: "Submission deleted successfully",
		Data:    rec,
	})
}
