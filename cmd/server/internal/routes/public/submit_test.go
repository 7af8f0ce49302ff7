package public_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gohealthalbania/booking-api/cmd/server/internal/routes/public"
	"github.com/gohealthalbania/booking-api/internal/notify"
	"github.com/gohealthalbania/booking-api/internal/store"
	"github.com/gohealthalbania/booking-api/internal/store/csvfile"
	"github.com/gohealthalbania/booking-api/internal/validator"
)

type stubVerifier struct {
	valid bool
	err   error
	calls int
}

func (s *stubVerifier) Verify(_ context.Context, _ string) (bool, error) {
	s.calls++
	return s.valid, s.err
}

type stubNotifier struct {
	err      error
	messages []notify.Message
}

func (s *stubNotifier) Send(_ context.Context, msg notify.Message) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

type fixture struct {
	router   *echo.Echo
	store    *csvfile.Store
	verifier *stubVerifier
	notifier *stubNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := csvfile.New(t.TempDir())
	require.NoError(t, err, "should create the store")

	f := &fixture{
		store:    st,
		verifier: &stubVerifier{valid: true},
		notifier: &stubNotifier{},
	}

	e := echo.New()
	validate := validator.Create()
	e.Validator = &validate

	handler := public.NewHandler(st, f.verifier, f.notifier)
	handler.AddRoutes(e)

	f.router = e
	return f
}

func (f *fixture) submit(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/send-email/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) countRows(t *testing.T, form store.FormType) int {
	t.Helper()

	res, err := f.store.List(context.Background(), form, store.ListQuery{})
	require.NoError(t, err, "should list")
	return res.Total
}

func TestSendEmail(t *testing.T) {
	t.Run("checkup submission is stored and mailed", func(t *testing.T) {
		f := newFixture(t)

		rec := f.submit(
			t,
			`{"firstName":"Ana","lastName":"Doda","email":"a@x.com","selectedDate":"2024-05-01","selectedTime":"2024-05-01T10:00:00","recaptchaToken":"valid"}`,
		)

		require.Equal(t, http.StatusOK, rec.Code, "submission should be accepted")
		assert.JSONEq(
			t,
			`{"message": "Email inviata con successo!"}`,
			rec.Body.String(),
			"should answer with the success body",
		)

		assert.Equal(t, 1, f.countRows(t, store.FormCheckup), "one checkup row should be stored")
		assert.Equal(t, 0, f.countRows(t, store.FormDental), "no dental row should be stored")

		res, err := f.store.List(context.Background(), store.FormCheckup, store.ListQuery{})
		require.NoError(t, err, "should list")
		require.Len(t, res.Data, 1, "one checkup row should be stored")
		assert.Equal(t, "Ana Doda", res.Data[0]["fullname"], "full name should be derived")

		require.Len(t, f.notifier.messages, 1, "one email should be sent")
		assert.Equal(
			t,
			"Nuova Prenotazione - CHECKUP",
			f.notifier.messages[0].Subject,
			"subject should name the form type",
		)
	})

	t.Run("dental submission lands in the dental store", func(t *testing.T) {
		f := newFixture(t)

		rec := f.submit(
			t,
			`{"name":"Ben Kola","department":"Dental","date":"2024-05-01","time":"2024-05-01T11:00:00","recaptchaToken":"valid"}`,
		)

		require.Equal(t, http.StatusOK, rec.Code, "submission should be accepted")
		assert.Equal(t, 1, f.countRows(t, store.FormDental), "one dental row should be stored")
		assert.Equal(t, 0, f.countRows(t, store.FormCheckup), "no checkup row should be stored")
	})

	t.Run("honeypot is silently absorbed", func(t *testing.T) {
		f := newFixture(t)

		rec := f.submit(
			t,
			`{"name":"Bot","website":"http://spam.example","recaptchaToken":"valid"}`,
		)

		require.Equal(t, http.StatusOK, rec.Code, "bots should see a success status")
		assert.JSONEq(
			t,
			`{"message": "Email inviata con successo!"}`,
			rec.Body.String(),
			"bots should see the genuine success body",
		)

		assert.Equal(t, 0, f.countRows(t, store.FormDental), "nothing should be stored")
		assert.Empty(t, f.notifier.messages, "nothing should be mailed")
		assert.Equal(t, 0, f.verifier.calls, "the captcha service should not be consulted")
	})

	t.Run("missing captcha token", func(t *testing.T) {
		f := newFixture(t)

		rec := f.submit(t, `{"name":"Ben Kola"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "missing token is a client error")
		assert.Equal(t, 0, f.countRows(t, store.FormDental), "nothing should be stored")
	})

	t.Run("rejected captcha token", func(t *testing.T) {
		f := newFixture(t)
		f.verifier.valid = false

		rec := f.submit(t, `{"name":"Ben Kola","recaptchaToken":"bogus"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "rejected token is a client error")

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "error body should be json")
		assert.Equal(
			t,
			"reCAPTCHA verification failed. Please try again.",
			body["message"],
			"rejection is reported explicitly, unlike the honeypot path",
		)

		assert.Equal(t, 0, f.countRows(t, store.FormDental), "nothing should be stored")
		assert.Empty(t, f.notifier.messages, "nothing should be mailed")
	})

	t.Run("mail failure alone still reports success", func(t *testing.T) {
		f := newFixture(t)
		f.notifier.err = errors.New("smtp down")

		rec := f.submit(t, `{"name":"Ben Kola","recaptchaToken":"valid"}`)

		require.Equal(t, http.StatusOK, rec.Code, "a stored submission is a success")
		assert.Equal(t, 1, f.countRows(t, store.FormDental), "the row should still be stored")
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newFixture(t)

		rec := f.submit(t, `{"name": 42}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "malformed body is a client error")
	})
}
