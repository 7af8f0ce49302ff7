package middleware

import (
	"context"
	"crypto/subtle"
	"os"

	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/codes"

	"github.com/gohealthalbania/booking-api/internal/logger"
)

// Used when doing a fake compare in the error case of BasicAuthValidator
var defaultHashForError string

// Generate a hash
func init() {
	var err error

	defaultHashForError, err = argon2id.CreateHash(
		"bnZSraUCS+nZh3MI8F3iiXbKFBcAyJhvAB6u/GBJzhC00ZPAQlyYVpQ+aryw7QvE2ZI=",
		argon2id.DefaultParams,
	)
	if err != nil {
		logger.Logger.Error("error creating default hash", "error", err)
		os.Exit(1)
	}
}

// Does a fake hash and compare for a hard coded password. Used when BasicAuthValidator is handed an unknown username so both branches cost the same.
func fakePasswordHash(ctx context.Context) {
	_, span := tracer.Start(ctx, "fakePasswordHash")
	defer span.End()

	_, err := argon2id.ComparePasswordAndHash("i am a very real password", defaultHashForError)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to compare fake password with default hash for error")
		return
	}

	span.AddEvent("compared fake password and default hash for error")
}

// Validates a basic auth pair against the configured admin credential
func (h *Handler) BasicAuthValidator(username, password string, c echo.Context) (bool, error) {
	ctx, span := tracer.Start(c.Request().Context(), "BasicAuthValidator")
	defer span.End()

	admin := h.Config.Admin

	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username)) == 1
	if !usernameMatch {
		span.AddEvent("unknown username")
		// Waste time for unknown username
		fakePasswordHash(ctx)
		return false, nil
	}

	span.AddEvent("checking hash")
	comparison, err := argon2id.ComparePasswordAndHash(password, admin.PasswordHash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check password")
		return false, err
	}

	if comparison {
		span.AddEvent("successful login attempt")
	} else {
		span.AddEvent("failed login attempt")
	}

	return comparison, nil
}
