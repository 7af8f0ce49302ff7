package routes

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/gohealthalbania/booking-api/internal/config"
	"github.com/gohealthalbania/booking-api/internal/store"
	"github.com/gohealthalbania/booking-api/internal/types"
	"github.com/gohealthalbania/booking-api/internal/validator"
)

func BuildEcho(logger *slog.Logger, cfg *config.Config, st store.Store) (*echo.Echo, error) {
	e := echo.New()

	validate := validator.Create()
	e.Validator = &validate

	e.Pre(middleware.AddTrailingSlash())

	e.Use(
		otelecho.Middleware("booking-api"),
		slogecho.NewWithConfig(logger, slogecho.Config{}),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Generator: func() string { return uuid.NewString() },
		}),
	)

	if len(cfg.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodDelete,
			},
		}))
	}

	e.GET("/health/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, types.HealthResponse{
			Status:         "ok",
			Environment:    cfg.Environment,
			EmailTransport: cfg.SMTP.Host,
			Storage: types.HealthStorage{
				Backend:  cfg.Storage.Backend,
				Location: st.Identifier(),
			},
		})
	})

	return e, nil
}
