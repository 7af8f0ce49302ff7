package notify

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"
)

// Ensure RetryNotifier implements Notifier interface.
var _ Notifier = (*RetryNotifier)(nil)

// Meta notifier that wraps delivery in a backoff loop
type RetryNotifier struct {
	notifier Notifier
	backoff  func() retry.Backoff
}

func NewRetryNotifierBackoff(notifier Notifier, backoff func() retry.Backoff) *RetryNotifier {
	return &RetryNotifier{
		notifier: notifier,
		backoff:  backoff,
	}
}

// Short retry window: the submitting client is waiting on the response.
func NewRetryNotifier(notifier Notifier) *RetryNotifier {
	return &RetryNotifier{
		notifier: notifier,
		backoff: func() retry.Backoff {
			b := retry.NewExponential(time.Second)
			b = retry.WithMaxDuration(time.Second*15, b)
			return b
		},
	}
}

func (r *RetryNotifier) Send(ctx context.Context, msg Message) error {
	ctx, span := tracer.Start(ctx, "RetryNotifier.Send")
	defer span.End()

	err := retry.Do(ctx, r.backoff(), func(rctx context.Context) error {
		//nolint:govet // shadow: intentionally shadow ctx and span to avoid using the incorrect one.
		ctx, span := tracer.Start(rctx, "RetryNotifier.Send.Retry")
		defer span.End()

		if err := r.notifier.Send(ctx, msg); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to send mail")
			return retry.RetryableError(err)
		}

		span.SetStatus(codes.Ok, "sent mail")
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send mail")
		return err
	}

	span.SetStatus(codes.Ok, "sent mail")
	return nil
}
