package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/labstack/echo/v4"
	otellib "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	servermiddleware "github.com/gohealthalbania/booking-api/cmd/server/internal/middleware"
	"github.com/gohealthalbania/booking-api/cmd/server/internal/routes"
	"github.com/gohealthalbania/booking-api/cmd/server/internal/routes/admin"
	"github.com/gohealthalbania/booking-api/cmd/server/internal/routes/public"
	"github.com/gohealthalbania/booking-api/internal/captcha"
	"github.com/gohealthalbania/booking-api/internal/config"
	"github.com/gohealthalbania/booking-api/internal/logger"
	"github.com/gohealthalbania/booking-api/internal/notify"
	"github.com/gohealthalbania/booking-api/internal/otel"
	"github.com/gohealthalbania/booking-api/internal/store"
	"github.com/gohealthalbania/booking-api/internal/store/csvfile"
	"github.com/gohealthalbania/booking-api/internal/store/sheets"
	"github.com/gohealthalbania/booking-api/internal/store/sqlite"
)

const name string = "github.com/gohealthalbania/booking-api/server"

var tracer = otellib.Tracer(name)

type server struct {
	router       *echo.Echo
	config       *config.Config
	store        store.Store
	storeClose   func() error
	otelShutdown func(context.Context) error
}

// buildStore constructs the configured record store backend.
func buildStore(ctx context.Context, cfg *config.StorageConfig) (store.Store, func() error, error) {
	switch cfg.Backend {
	case "csv":
		st, err := csvfile.New(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return st, nil, nil
	case "sqlite":
		st, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case "sheets":
		st, err := sheets.New(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return st, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

func initServer(ctx context.Context) (*server, error) {
	server := new(server)

	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize server config: %w", err)
	}
	server.config = cfg

	useOTLP := false
	if cfg.Logging != nil {
		useOTLP = cfg.Logging.UseOTLP
	}

	shutdownOTel, err := otel.SetupOTelSDK(ctx, useOTLP)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OTEL SDK: %w", err)
	}
	defer func() {
		// Something failed to initialize, make sure everything gets flushed to the server
		if server.otelShutdown == nil {
			otelShutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				time.Second*time.Duration(cfg.GracefulShutdownSecs),
			)
			defer cancel()

			if err = shutdownOTel(otelShutdownCtx); err != nil {
				logger.Logger.Error("failed to flush otel data", "error", err)
			}
		}
	}()

	ctx, span := tracer.Start(ctx, "initServer")
	defer span.End()

	if cfg.Logging != nil {
		logger.LogLevel.Set(slog.Level(cfg.Logging.App.Level))
	}

	st, storeClose, err := buildStore(ctx, cfg.Storage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to initialize record store")
		return nil, fmt.Errorf("failed to initialize record store: %w", err)
	}

	span.AddEvent("initialized record store")

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	verifier := captcha.NewGoogleVerifier(
		retryClient.StandardClient(),
		cfg.Captcha.SecretKey,
		cfg.Captcha.Endpoint,
	)

	span.AddEvent("initialized captcha verifier")

	notifier := notify.NewRetryNotifier(notify.NewSMTPNotifier(cfg.SMTP))

	e, err := routes.BuildEcho(logger.Logger, cfg, st)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "error building router")
		return nil, fmt.Errorf("error building router: %w", err)
	}

	span.AddEvent("created echo router")

	middlewareHandler := servermiddleware.Handler{Config: cfg}
	publicHandler := public.NewHandler(st, verifier, notifier)
	adminHandler := admin.NewHandler(st)

	publicHandler.AddRoutes(e)
	adminHandler.AddRoutes(e, &middlewareHandler)

	server.otelShutdown = shutdownOTel
	server.router = e
	server.store = st
	server.storeClose = storeClose

	return server, nil
}

func (s *server) Start(_ context.Context) error {
	logger.Logger.Info("Starting services...", "store", s.store.Identifier())

	err := s.router.Start(s.config.ListenAddress)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *server) Shutdown() error {
	var errs error

	ctx, cancelTimeout := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(s.config.GracefulShutdownSecs),
	)
	defer cancelTimeout()

	if err := s.router.Shutdown(ctx); err != nil {
		errs = errors.Join(errs, err)
	}

	if s.storeClose != nil {
		if err := s.storeClose(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed to close record store: %w", err))
		}
	}

	if s.otelShutdown != nil {
		errs = errors.Join(errs, s.otelShutdown(ctx))
	}

	return errs
}

func main() {
	ctx, cancelSignal := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)

	logger.InitSlog()

	server, err := initServer(ctx)
	if err != nil {
		logger.Logger.Error(err.Error())
		cancelSignal()
		os.Exit(1)
	}

	errch := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Got shutdown signal!")
		errch <- server.Shutdown()
		close(errch)
	}()

	if err := server.Start(ctx); err != nil {
		logger.Logger.Error(err.Error())
		cancelSignal()
		os.Exit(1)
	}

	if err := <-errch; err != nil {
		logger.Logger.Error("Error shutting down server", "error", err)
	}

	cancelSignal()
}
