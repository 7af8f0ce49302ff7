// Package sqlite keeps submissions in an embedded sqlite database, one table
// per form type with the same text columns the CSV files carry. Row order is
// insertion order (rowid), matching the flat-file backend's file order.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	_ "modernc.org/sqlite"

	"github.com/gohealthalbania/booking-api/internal/store"
	"github.com/gohealthalbania/booking-api/internal/store/sqlite/migrations"
)

const name = "github.com/gohealthalbania/booking-api/internal/store/sqlite"

var tracer = otel.Tracer(name)

var _ store.Store = (*Store)(nil)

type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// sqlite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := migrations.Up(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Identifier() string {
	return "sqlite:" + s.path
}

func table(form store.FormType) string {
	if form == store.FormCheckup {
		return "checkup_submissions"
	}
	return "dental_submissions"
}

func (s *Store) Append(ctx context.Context, form store.FormType, rec store.Record) (string, error) {
	ctx, span := tracer.Start(ctx, "sqlite.Append")
	defer span.End()

	span.SetAttributes(attribute.String("form", string(form)))

	keys := store.Keys(form)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ")
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table(form), strings.Join(keys, ", "), placeholders,
	)

	var lastErr error
	for range store.MaxIDAttempts {
		id, err := store.NewID()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to generate id")
			return "", err
		}
		rec["id"] = id

		args := make([]any, len(keys))
		for i, k := range keys {
			args[i] = rec[k]
		}

		_, err = s.db.ExecContext(ctx, query, args...)
		if err == nil {
			span.SetAttributes(attribute.String("id", id))
			span.SetStatus(codes.Ok, "inserted row")
			return id, nil
		}
		// The id column is the primary key; a constraint failure means the
		// random token collided, so draw a new one.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			lastErr = err
			continue
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert row")
		return "", fmt.Errorf("failed to insert row: %w", err)
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "exhausted id generation attempts")
	return "", fmt.Errorf("exhausted id generation attempts: %w", lastErr)
}

func (s *Store) loadAll(ctx context.Context, form store.FormType) ([]store.Record, error) {
	keys := store.Keys(form)
	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY rowid",
		strings.Join(keys, ", "), table(form),
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		vals := make([]string, len(keys))
		ptrs := make([]any, len(keys))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rec := make(store.Record, len(keys))
		for i, k := range keys {
			rec[k] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return out, nil
}

func (s *Store) List(ctx context.Context, form store.FormType, q store.ListQuery) (*store.ListResult, error) {
	ctx, span := tracer.Start(ctx, "sqlite.List")
	defer span.End()

	all, err := s.loadAll(ctx, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load rows")
		return nil, err
	}

	res := store.ApplyQuery(all, q)

	span.SetAttributes(attribute.Int("total", res.Total))
	span.SetStatus(codes.Ok, "listed rows")
	return res, nil
}

func (s *Store) get(ctx context.Context, form store.FormType, id string) (store.Record, error) {
	keys := store.Keys(form)
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = ?",
		strings.Join(keys, ", "), table(form),
	)

	vals := make([]string, len(keys))
	ptrs := make([]any, len(keys))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	err := s.db.QueryRowContext(ctx, query, id).Scan(ptrs...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query row: %w", err)
	}

	rec := make(store.Record, len(keys))
	for i, k := range keys {
		rec[k] = vals[i]
	}
	return rec, nil
}

func (s *Store) Get(ctx context.Context, form store.FormType, id string) (store.Record, error) {
	ctx, span := tracer.Start(ctx, "sqlite.Get")
	defer span.End()

	rec, err := s.get(ctx, form, id)
	if errors.Is(err, store.ErrNotFound) {
		span.SetStatus(codes.Ok, "row not found")
		return nil, err
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get row")
		return nil, err
	}

	span.SetStatus(codes.Ok, "found row")
	return rec, nil
}

func (s *Store) Update(ctx context.Context, form store.FormType, id string, fields map[string]string) (store.Record, error) {
	ctx, span := tracer.Start(ctx, "sqlite.Update")
	defer span.End()

	rec, err := s.get(ctx, form, id)
	if errors.Is(err, store.ErrNotFound) {
		span.SetStatus(codes.Ok, "row not found")
		return nil, err
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get row")
		return nil, err
	}

	store.ApplyUpdate(form, rec, fields, time.Now())

	keys := store.Keys(form)
	assignments := make([]string, 0, len(keys)-1)
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		if k == "id" {
			continue
		}
		assignments = append(assignments, k+" = ?")
		args = append(args, rec[k])
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = ?",
		table(form), strings.Join(assignments, ", "),
	)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update row")
		return nil, fmt.Errorf("failed to update row: %w", err)
	}

	span.SetStatus(codes.Ok, "updated row")
	return rec, nil
}

func (s *Store) Delete(ctx context.Context, form store.FormType, id string) (store.Record, error) {
	ctx, span := tracer.Start(ctx, "sqlite.Delete")
	defer span.End()

	rec, err := s.get(ctx, form, id)
	if errors.Is(err, store.ErrNotFound) {
		span.SetStatus(codes.Ok, "row not found")
		return nil, err
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get row")
		return nil, err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", table(form))
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete row")
		return nil, fmt.Errorf("failed to delete row: %w", err)
	}

	span.SetStatus(codes.Ok, "deleted row")
	return rec, nil
}

func (s *Store) ExportCSV(ctx context.Context, form store.FormType) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "sqlite.ExportCSV")
	defer span.End()

	all, err := s.loadAll(ctx, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load rows")
		return nil, err
	}

	out, err := store.RenderCSV(form, all)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to render csv")
		return nil, err
	}

	span.SetStatus(codes.Ok, "exported rows")
	return out, nil
}
