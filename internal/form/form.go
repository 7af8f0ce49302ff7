// Package form maps the two incoming booking shapes onto canonical store
// records. The client sends no explicit discriminator: a request carrying a
// first or last name is a checkup booking, anything else is dental.
package form

import (
	"strings"
	"time"

	"github.com/gohealthalbania/booking-api/internal/store"
	"github.com/gohealthalbania/booking-api/internal/types"
)

// Infer classifies a raw submission. Ambiguous input defaults to dental.
func Infer(req *types.SubmissionRequest) store.FormType {
	if strings.TrimSpace(req.FirstName) != "" || strings.TrimSpace(req.LastName) != "" {
		return store.FormCheckup
	}
	return store.FormDental
}

// FullName joins first and last name, tolerating either part being absent.
func FullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"15:04:05",
	"15:04",
}

// FormatDate renders an incoming date string as YYYY-MM-DD. Absent or
// unparseable values become empty string; normalization never fails a
// submission over a date.
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// FormatTime renders an incoming time string as HH:MM, same tolerance as
// FormatDate.
func FormatTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04")
		}
	}
	return ""
}

// Normalize builds the store record for a submission. Every column of the
// inferred form type is present in the result, absent inputs as empty
// strings.
func Normalize(req *types.SubmissionRequest, now time.Time) (store.FormType, store.Record) {
	form := Infer(req)

	rec := store.Record{
		"timestamp": store.Timestamp(now),
		"email":     req.Email,
		"phone":     req.Phone,
		"service":   req.Service,
	}

	switch form {
	case store.FormCheckup:
		rec["fullname"] = FullName(req.FirstName, req.LastName)
		rec["firstname"] = req.FirstName
		rec["lastname"] = req.LastName
		rec["mobile"] = req.Mobile
		rec["age"] = req.Age
		rec["address"] = req.Address
		rec["branch"] = req.Branch
		rec["message"] = req.Message
		rec["appointmentdate"] = FormatDate(req.SelectedDate)
		rec["appointmenttime"] = FormatTime(req.SelectedTime)
	default:
		rec["name"] = req.Name
		rec["department"] = req.Department
		rec["treatment"] = req.Treatment
		rec["appointmentdate"] = FormatDate(req.Date)
		rec["appointmenttime"] = FormatTime(req.Time)
	}

	// Fill any remaining columns so every backend persists the full row.
	for _, key := range store.Keys(form) {
		if key == "id" {
			continue
		}
		if _, ok := rec[key]; !ok {
			rec[key] = ""
		}
	}

	return form, rec
}
