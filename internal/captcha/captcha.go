// Package captcha validates client reCAPTCHA tokens against Google's
// verification service.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gohealthalbania/booking-api/internal/logger"
)

const name = "github.com/gohealthalbania/booking-api/internal/captcha"

var tracer = otel.Tracer(name)

const DefaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// Verifier decides whether a client-supplied token belongs to a human.
type Verifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// Ensure GoogleVerifier implements Verifier interface.
var _ Verifier = (*GoogleVerifier)(nil)

type GoogleVerifier struct {
	client    *http.Client
	secretKey string
	endpoint  string
}

func NewGoogleVerifier(client *http.Client, secretKey, endpoint string) *GoogleVerifier {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &GoogleVerifier{
		client:    client,
		secretKey: secretKey,
		endpoint:  endpoint,
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (bool, error) {
	ctx, span := tracer.Start(ctx, "GoogleVerifier.Verify", trace.WithAttributes(
		attribute.String("endpoint", v.endpoint),
	))
	defer span.End()

	body := url.Values{
		"secret":   {v.secretKey},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint,
		strings.NewReader(body.Encode()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to construct request")
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach verification service")
		return false, fmt.Errorf("failed to reach verification service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("invalid status code: %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid status code")
		return false, err
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode response")
		return false, fmt.Errorf("failed to decode verification response: %w", err)
	}

	if !result.Success && len(result.ErrorCodes) > 0 {
		logger.Logger.DebugContext(ctx, "captcha rejected", "errorCodes", result.ErrorCodes)
	}

	span.SetStatus(codes.Ok, "verified token")
	return result.Success, nil
}
