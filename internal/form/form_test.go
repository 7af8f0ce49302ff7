package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gohealthalbania/booking-api/internal/store"
	"github.com/gohealthalbania/booking-api/internal/types"
)

func TestInfer(t *testing.T) {
	t.Run("first name classifies as checkup", func(t *testing.T) {
		form := Infer(&types.SubmissionRequest{FirstName: "Ana"})
		assert.Equal(t, store.FormCheckup, form, "should classify as checkup")
	})
	t.Run("last name alone classifies as checkup", func(t *testing.T) {
		form := Infer(&types.SubmissionRequest{LastName: "Doda"})
		assert.Equal(t, store.FormCheckup, form, "should classify as checkup")
	})
	t.Run("no name fields defaults to dental", func(t *testing.T) {
		form := Infer(&types.SubmissionRequest{Name: "Ben Kola", Email: "b@x.com"})
		assert.Equal(t, store.FormDental, form, "should default to dental")
	})
	t.Run("whitespace-only names default to dental", func(t *testing.T) {
		form := Infer(&types.SubmissionRequest{FirstName: "  ", LastName: "\t"})
		assert.Equal(t, store.FormDental, form, "blank names should not classify as checkup")
	})
}

func TestFormatDate(t *testing.T) {
	t.Run("rfc3339 input", func(t *testing.T) {
		assert.Equal(t, "2024-05-01", FormatDate("2024-05-01T10:00:00Z"), "should keep the date part")
	})
	t.Run("plain date input", func(t *testing.T) {
		assert.Equal(t, "2024-05-01", FormatDate("2024-05-01"), "should pass through")
	})
	t.Run("absent input", func(t *testing.T) {
		assert.Equal(t, "", FormatDate(""), "should be empty")
	})
	t.Run("unparseable input", func(t *testing.T) {
		assert.Equal(t, "", FormatDate("next tuesday"), "should be empty")
	})
}

func TestFormatTime(t *testing.T) {
	t.Run("datetime input", func(t *testing.T) {
		assert.Equal(t, "10:00", FormatTime("2024-05-01T10:00:00"), "should keep hours and minutes")
	})
	t.Run("bare time input", func(t *testing.T) {
		assert.Equal(t, "11:30", FormatTime("11:30"), "should pass through")
	})
	t.Run("unparseable input", func(t *testing.T) {
		assert.Equal(t, "", FormatTime("morning"), "should be empty")
	})
}

func TestNormalize(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	t.Run("checkup submission", func(t *testing.T) {
		req := &types.SubmissionRequest{
			FirstName:    "Ana",
			LastName:     "Doda",
			Email:        "a@x.com",
			SelectedDate: "2024-05-01",
			SelectedTime: "2024-05-01T10:00:00",
		}

		form, rec := Normalize(req, now)

		require.Equal(t, store.FormCheckup, form, "should classify as checkup")
		assert.Equal(t, "Ana Doda", rec["fullname"], "should derive full name")
		assert.Equal(t, "a@x.com", rec["email"], "should carry the email")
		assert.Equal(t, "2024-05-01", rec["appointmentdate"], "should format the date")
		assert.Equal(t, "10:00", rec["appointmenttime"], "should format the time")
		assert.Equal(t, "2024-05-01T09:30:00Z", rec["timestamp"], "should stamp submission instant")

		for _, key := range store.Keys(store.FormCheckup) {
			if key == "id" {
				continue
			}
			_, ok := rec[key]
			assert.True(t, ok, "column %q should be present", key)
		}
	})

	t.Run("dental submission", func(t *testing.T) {
		req := &types.SubmissionRequest{
			Name:       "Ben Kola",
			Department: "Dental",
			Date:       "2024-05-01",
			Time:       "2024-05-01T11:00:00",
		}

		form, rec := Normalize(req, now)

		require.Equal(t, store.FormDental, form, "should classify as dental")
		assert.Equal(t, "Ben Kola", rec["name"], "should carry the name")
		assert.Equal(t, "Dental", rec["department"], "should carry the department")
		assert.Equal(t, "11:00", rec["appointmenttime"], "should format the time")
	})

	t.Run("missing optional fields become empty strings", func(t *testing.T) {
		form, rec := Normalize(&types.SubmissionRequest{FirstName: "Ana"}, now)

		require.Equal(t, store.FormCheckup, form, "should classify as checkup")
		assert.Equal(t, "Ana", rec["fullname"], "full name should tolerate a missing part")
		assert.Equal(t, "", rec["appointmentdate"], "absent date should be stored empty")
		assert.Equal(t, "", rec["message"], "absent message should be stored empty")
	})
}
