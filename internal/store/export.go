package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
)

// ExportFileName is the canonical download name for a form's CSV export.
func ExportFileName(form FormType) string {
	return string(form) + "_submissions.csv"
}

// Timestamp renders a submission instant the way every backend stores it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ApplyUpdate overwrites rec's fields from the partial map, keeping only keys
// that case-insensitively match a column of form, and refreshes the timestamp.
// The id field is immutable and never overwritten.
func ApplyUpdate(form FormType, rec Record, fields map[string]string, now time.Time) {
	for key, val := range fields {
		if !HasColumn(form, key) {
			continue
		}
		lower := strings.ToLower(key)
		if lower == "id" {
			continue
		}
		rec[lower] = val
	}
	rec["timestamp"] = Timestamp(now)
}

// RenderCSV serializes rows as quoted CSV with the fixed header for form.
// Backends without a native CSV file use this for export.
func RenderCSV(form FormType, rows []Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	cols := Columns(form)
	if err := w.Write(cols); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range rows {
		if err := w.Write(RecordToRow(cols, rec)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
