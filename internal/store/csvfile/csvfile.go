// Package csvfile keeps submissions in one flat CSV file per form type. The
// first line of each file is the fixed column header; every following line is
// one quoted-CSV record. Reads parse the whole file; Update and Delete rewrite
// it through a temp file. A per-file mutex serializes access so in-process
// read-modify-rewrite cycles cannot race.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/gohealthalbania/booking-api/internal/logger"
	"github.com/gohealthalbania/booking-api/internal/store"
)

const name = "github.com/gohealthalbania/booking-api/internal/store/csvfile"

var tracer = otel.Tracer(name)

// Ensure Store implements the store interface.
var _ store.Store = (*Store)(nil)

type file struct {
	mu   sync.Mutex
	path string
}

type Store struct {
	dataDir string
	dental  file
	checkup file
}

// New creates the data directory and header-only store files if absent.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	s := &Store{
		dataDir: dataDir,
		dental:  file{path: filepath.Join(dataDir, "dental_submissions.csv")},
		checkup: file{path: filepath.Join(dataDir, "checkup_submissions.csv")},
	}

	for _, form := range []store.FormType{store.FormDental, store.FormCheckup} {
		if err := s.ensureFile(form); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) Identifier() string {
	return "csv:" + s.dataDir
}

func (s *Store) file(form store.FormType) *file {
	if form == store.FormCheckup {
		return &s.checkup
	}
	return &s.dental
}

func (s *Store) ensureFile(form store.FormType) error {
	f := s.file(form)
	f.mu.Lock()
	defer f.mu.Unlock()

	_, err := os.Stat(f.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat store file: %w", err)
	}

	out, err := os.OpenFile(f.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("failed to create store file: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(store.Columns(form)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush header: %w", err)
	}

	logger.Logger.Info("created store file", "path", f.path, "form", form)
	return nil
}

// readAll parses the full file under the caller-held lock. Field keys come
// from the file's own header line so header and row stay index-aligned.
func (s *Store) readAll(form store.FormType) ([]store.Record, error) {
	f := s.file(form)

	in, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	defer in.Close()

	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	raw, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	header := raw[0]
	rows := make([]store.Record, 0, len(raw)-1)
	for _, line := range raw[1:] {
		rows = append(rows, store.RowToRecord(header, line))
	}
	return rows, nil
}

// rewrite atomically replaces the file with header plus rows.
func (s *Store) rewrite(form store.FormType, rows []store.Record) error {
	f := s.file(form)

	tmp, err := os.CreateTemp(s.dataDir, filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	cols := store.Columns(form)
	if err := w.Write(cols); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range rows {
		if err := w.Write(store.RecordToRow(cols, rec)); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, form store.FormType, rec store.Record) (string, error) {
	_, span := tracer.Start(ctx, "csvfile.Append")
	defer span.End()

	span.SetAttributes(attribute.String("form", string(form)))

	f := s.file(form)
	f.mu.Lock()
	defer f.mu.Unlock()

	rows, err := s.readAll(form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read store file")
		return "", err
	}

	id, err := s.freshID(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate id")
		return "", err
	}
	rec["id"] = id

	out, err := os.OpenFile(f.path, os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open store file for append")
		return "", fmt.Errorf("failed to open store file for append: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(store.RecordToRow(store.Columns(form), rec)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to append row")
		return "", fmt.Errorf("failed to append row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to flush row")
		return "", fmt.Errorf("failed to flush row: %w", err)
	}

	span.SetAttributes(attribute.String("id", id))
	span.SetStatus(codes.Ok, "appended row")
	return id, nil
}

// freshID draws tokens until one does not collide with an existing row.
func (s *Store) freshID(rows []store.Record) (string, error) {
	existing := make(map[string]bool, len(rows))
	for _, rec := range rows {
		existing[rec["id"]] = true
	}

	for range store.MaxIDAttempts {
		id, err := store.NewID()
		if err != nil {
			return "", err
		}
		if !existing[id] {
			return id, nil
		}
	}
	return "", errors.New("exhausted id generation attempts")
}

func (s *Store) List(ctx context.Context, form store.FormType, q store.ListQuery) (*store.ListResult, error) {
	_, span := tracer.Start(ctx, "csvfile.List")
	defer span.End()

	f := s.file(form)
	f.mu.Lock()
	rows, err := s.readAll(form)
	f.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read store file")
		return nil, err
	}

	res := store.ApplyQuery(rows, q)

	span.SetAttributes(attribute.Int("total", res.Total))
	span.SetStatus(codes.Ok, "listed rows")
	return res, nil
}

func (s *Store) Get(ctx context.Context, form store.FormType, id string) (store.Record, error) {
	_, span := tracer.Start(ctx, "csvfile.Get")
	defer span.End()

	f := s.file(form)
	f.mu.Lock()
	rows, err := s.readAll(form)
	f.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read store file")
		return nil, err
	}

	for _, rec := range rows {
		if rec["id"] == id {
			span.SetStatus(codes.Ok, "found row")
			return rec, nil
		}
	}

	span.SetStatus(codes.Ok, "row not found")
	return nil, store.ErrNotFound
}

func (s *Store) Update(ctx context.Context, form store.FormType, id string, fields map[string]string) (store.Record, error) {
	_, span := tracer.Start(ctx, "csvfile.Update")
	defer span.End()

	f := s.file(form)
	f.mu.Lock()
	defer f.mu.Unlock()

	rows, err := s.readAll(form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read store file")
		return nil, err
	}

	idx := indexOf(rows, id)
	if idx < 0 {
		span.SetStatus(codes.Ok, "row not found")
		return nil, store.ErrNotFound
	}

	store.ApplyUpdate(form, rows[idx], fields, time.Now())

	if err := s.rewrite(form, rows); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to rewrite store file")
		return nil, err
	}

	span.SetStatus(codes.Ok, "updated row")
	return rows[idx], nil
}

func (s *Store) Delete(ctx context.Context, form store.FormType, id string) (store.Record, error) {
	_, span := tracer.Start(ctx, "csvfile.Delete")
	defer span.End()

	f := s.file(form)
	f.mu.Lock()
	defer f.mu.Unlock()

	rows, err := s.readAll(form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read store file")
		return nil, err
	}

	idx := indexOf(rows, id)
	if idx < 0 {
		span.SetStatus(codes.Ok, "row not found")
		return nil, store.ErrNotFound
	}

	removed := rows[idx]
	rows = append(rows[:idx], rows[idx+1:]...)

	if err := s.rewrite(form, rows); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to rewrite store file")
		return nil, err
	}

	span.SetStatus(codes.Ok, "deleted row")
	return removed, nil
}

func (s *Store) ExportCSV(ctx context.Context, form store.FormType) ([]byte, error) {
	_, span := tracer.Start(ctx, "csvfile.ExportCSV")
	defer span.End()

	f := s.file(form)
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read store file")
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	span.SetStatus(codes.Ok, "exported file")
	return raw, nil
}

func indexOf(rows []store.Record, id string) int {
	for i, rec := range rows {
		if rec["id"] == id {
			return i
		}
	}
	return -1
}
