package notify

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gopkg.in/gomail.v2"

	"github.com/gohealthalbania/booking-api/internal/config"
)

// Ensure SMTPNotifier implements Notifier interface.
var _ Notifier = (*SMTPNotifier)(nil)

type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewSMTPNotifier(cfg *config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		to:     cfg.To,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	_, span := tracer.Start(ctx, "SMTPNotifier.Send")
	defer span.End()

	span.SetAttributes(attribute.String("subject", msg.Subject))

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.from, "Website Form")
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	// gomail has no context support; the dialer's own timeouts bound the call.
	if err := n.dialer.DialAndSend(m); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send mail")
		return err
	}

	span.SetStatus(codes.Ok, "sent mail")
	return nil
}
