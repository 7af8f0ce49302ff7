package middleware

import (
	"go.opentelemetry.io/otel"

	"github.com/gohealthalbania/booking-api/internal/config"
)

const name string = "github.com/gohealthalbania/booking-api/cmd/server/middleware"

var tracer = otel.Tracer(name)

type Handler struct {
	Config *config.Config
}

func NewHandler(cfg *config.Config) *Handler {
	return &Handler{Config: cfg}
}
