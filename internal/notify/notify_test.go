package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gohealthalbania/booking-api/internal/store"
)

func TestBuildMessage(t *testing.T) {
	t.Run("checkup message", func(t *testing.T) {
		msg := BuildMessage(store.FormCheckup, store.Record{
			"fullname":        "Ana Doda",
			"email":           "a@x.com",
			"mobile":          "+355671234567",
			"branch":          "Tirana",
			"appointmentdate": "2024-05-01",
			"appointmenttime": "10:00",
		})

		assert.Equal(t, "Nuova Prenotazione - CHECKUP", msg.Subject, "subject should name the form type")
		assert.Contains(t, msg.HTML, "<strong>Nome:</strong> Ana Doda", "should carry the full name")
		assert.Contains(t, msg.HTML, "<strong>Cellulare:</strong> +355671234567", "should carry the mobile")
		assert.Contains(t, msg.HTML, "<strong>Filiale:</strong> Tirana", "should carry the branch")
		assert.NotContains(t, msg.HTML, "Reparto", "empty fields should be left out")
	})

	t.Run("dental message uses the plain name", func(t *testing.T) {
		msg := BuildMessage(store.FormDental, store.Record{
			"name":       "Ben Kola",
			"department": "Dental",
			"treatment":  "Cleaning",
		})

		assert.Equal(t, "Nuova Prenotazione - DENTAL", msg.Subject, "subject should name the form type")
		assert.Contains(t, msg.HTML, "<strong>Nome:</strong> Ben Kola", "should carry the name")
		assert.Contains(t, msg.HTML, "<strong>Reparto:</strong> Dental", "should carry the department")
	})

	t.Run("html in field values is escaped", func(t *testing.T) {
		msg := BuildMessage(store.FormDental, store.Record{
			"name": "<script>alert(1)</script>",
		})

		assert.NotContains(t, msg.HTML, "<script>", "markup in input should be escaped")
		assert.Contains(t, msg.HTML, "&lt;script&gt;", "markup in input should be escaped")
	})
}

type countingNotifier struct {
	calls    int
	failures int
}

func (c *countingNotifier) Send(_ context.Context, _ Message) error {
	c.calls++
	if c.calls <= c.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestRetryNotifier(t *testing.T) {
	backoff := func() retry.Backoff {
		b := retry.NewConstant(time.Millisecond)
		b = retry.WithMaxRetries(3, b)
		return b
	}

	t.Run("retries transient failures", func(t *testing.T) {
		inner := &countingNotifier{failures: 2}
		notifier := NewRetryNotifierBackoff(inner, backoff)

		err := notifier.Send(context.Background(), Message{Subject: "test"})
		require.NoError(t, err, "should succeed after retries")
		assert.Equal(t, 3, inner.calls, "should have retried twice")
	})

	t.Run("gives up after the backoff is exhausted", func(t *testing.T) {
		inner := &countingNotifier{failures: 10}
		notifier := NewRetryNotifierBackoff(inner, backoff)

		err := notifier.Send(context.Background(), Message{Subject: "test"})
		assert.Error(t, err, "should surface the final failure")
	})
}
