package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get/Update/Delete when no row carries the id.
var ErrNotFound = errors.New("submission not found")

// FormType selects which of the two booking forms a submission belongs to.
// Each form type has its own column schema and its own backing storage.
type FormType string

const (
	FormDental  FormType = "dental"
	FormCheckup FormType = "checkup"
)

func ParseFormType(raw string) (FormType, error) {
	switch FormType(strings.ToLower(raw)) {
	case FormDental:
		return FormDental, nil
	case FormCheckup:
		return FormCheckup, nil
	default:
		return "", fmt.Errorf("unknown form type %q", raw)
	}
}

// Record is one submission as a field map keyed by lower-cased column name.
// Every field is text; absent fields are empty strings, never missing keys.
type Record map[string]string

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Store is the persistence contract for booking submissions. Implementations
// are safe for concurrent use within a single process; cross-process access
// to the same backing storage is not coordinated.
type Store interface {
	// Append persists rec as a new row and returns its generated id.
	// The id field on rec is assigned by the store.
	Append(ctx context.Context, form FormType, rec Record) (string, error)
	// List filters, sorts and paginates all rows per q.
	List(ctx context.Context, form FormType, q ListQuery) (*ListResult, error)
	// Get returns the row whose id field equals id, or ErrNotFound.
	Get(ctx context.Context, form FormType, id string) (Record, error)
	// Update overwrites the fields whose keys case-insensitively match a
	// known column, refreshes the timestamp, and returns the updated row.
	Update(ctx context.Context, form FormType, id string, fields map[string]string) (Record, error)
	// Delete removes the row and returns it, or ErrNotFound. A failed
	// Delete leaves storage unchanged.
	Delete(ctx context.Context, form FormType, id string) (Record, error)
	// ExportCSV renders the full store for form as quoted CSV with the
	// fixed column header on the first line.
	ExportCSV(ctx context.Context, form FormType) ([]byte, error)
	// Identifier names where rows are kept. Used for logging and the
	// health report, never parsed.
	Identifier() string
}
