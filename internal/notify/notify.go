// Package notify delivers a booking alert email to the clinic for every
// accepted submission.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/gohealthalbania/booking-api/internal/store"
)

const name = "github.com/gohealthalbania/booking-api/internal/notify"

var tracer = otel.Tracer(name)

type Message struct {
	Subject string
	HTML    string
}

// Notifier delivers one message per accepted submission.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// The clinic staff reads these emails in Italian.
var fieldLabels = []struct {
	key   string
	label string
}{
	{"department", "Reparto"},
	{"treatment", "Trattamento"},
	{"service", "Servizio Richiesto"},
	{"email", "Email"},
	{"phone", "Telefono"},
	{"mobile", "Cellulare"},
	{"appointmentdate", "Data"},
	{"appointmenttime", "Ora"},
	{"age", "Età"},
	{"address", "Indirizzo"},
	{"branch", "Filiale"},
	{"message", "Messaggio"},
}

// BuildMessage renders the alert email for a normalized submission. Empty
// fields are left out rather than rendered blank.
func BuildMessage(form store.FormType, rec store.Record) Message {
	title := fmt.Sprintf("Nuova Prenotazione - %s", strings.ToUpper(string(form)))

	fullName := rec["fullname"]
	if form == store.FormDental {
		fullName = rec["name"]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<p><strong>Nome:</strong> %s</p>\n", html.EscapeString(fullName))
	for _, f := range fieldLabels {
		if v := rec[f.key]; v != "" {
			fmt.Fprintf(&b, "<p><strong>%s:</strong> %s</p>\n", f.label, html.EscapeString(v))
		}
	}

	return Message{Subject: title, HTML: b.String()}
}
