// Package admin serves the authenticated management API over the record
// store: listing, editing, deleting, and exporting submissions.
package admin

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel"

	servermiddleware "github.com/gohealthalbania/booking-api/cmd/server/internal/middleware"
	"github.com/gohealthalbania/booking-api/internal/store"
)

const name = "github.com/gohealthalbania/booking-api/cmd/server/routes/admin"

var tracer = otel.Tracer(name)

type Handler struct {
	store store.Store
}

func NewHandler(st store.Store) Handler {
	return Handler{store: st}
}

func (h *Handler) AddRoutes(e *echo.Echo, middlewareHandler *servermiddleware.Handler) {
	basicAuth := middleware.BasicAuth(middlewareHandler.BasicAuthValidator)

	submissionsGroup := e.Group(
		"/admin/api/submissions/:form_type",
		basicAuth,
		servermiddleware.ResolveFormType("form_type", "form"),
	)
	submissionsGroup.GET("/", h.ListSubmissions)
	submissionsGroup.GET("/:id/", h.GetSubmission)
	submissionsGroup.PUT("/:id/", h.UpdateSubmission)
	submissionsGroup.DELETE("/:id/", h.DeleteSubmission)

	downloadGroup := e.Group(
		"/download-csv/:form_type",
		basicAuth,
		servermiddleware.ResolveFormType("form_type", "form"),
	)
	downloadGroup.GET("/", h.DownloadCSV)
}
