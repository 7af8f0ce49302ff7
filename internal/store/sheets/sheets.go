// Package sheets keeps submissions in a Google Sheets spreadsheet, one sheet
// tab per form type. The first row of each tab is the fixed column header.
// The Sheets API has no row-level mutation that fits the record contract, so
// Update and Delete rewrite the whole tab, mirroring the flat-file backend.
package sheets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/gohealthalbania/booking-api/internal/store"
)

const name = "github.com/gohealthalbania/booking-api/internal/store/sheets"

var tracer = otel.Tracer(name)

var _ store.Store = (*Store)(nil)

type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	mu            sync.Mutex
}

// TabName returns the sheet tab holding a form type's rows.
func TabName(form store.FormType) string {
	if form == store.FormCheckup {
		return "Checkup"
	}
	return "Dental"
}

// New connects to the spreadsheet and creates missing tabs and header rows.
func New(ctx context.Context, spreadsheetID, credentialsFile string) (*Store, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	s := &Store{svc: svc, spreadsheetID: spreadsheetID}
	if err := s.ensureTabs(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Identifier() string {
	return "sheets:" + s.spreadsheetID
}

func (s *Store) ensureTabs(ctx context.Context) error {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to fetch spreadsheet metadata: %w", err)
	}

	existing := make(map[string]bool, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		existing[sh.Properties.Title] = true
	}

	var requests []*sheets.Request
	for _, form := range []store.FormType{store.FormDental, store.FormCheckup} {
		if existing[TabName(form)] {
			continue
		}
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: TabName(form)},
			},
		})
	}
	if len(requests) > 0 {
		_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to add missing tabs: %w", err)
		}
	}

	for _, form := range []store.FormType{store.FormDental, store.FormCheckup} {
		if err := s.ensureHeader(ctx, form); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ensureHeader(ctx context.Context, form store.FormType) error {
	rng := TabName(form) + "!1:1"
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, &sheets.ValueRange{
		Values: [][]any{toCells(store.Columns(form))},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	return nil
}

// loadAll reads the whole tab. The API omits trailing empty cells, so rows
// may come back short; RowToRecord pads them.
func (s *Store) loadAll(ctx context.Context, form store.FormType) ([]store.Record, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, TabName(form)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read tab: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	header := fromCells(resp.Values[0])
	rows := make([]store.Record, 0, len(resp.Values)-1)
	for _, line := range resp.Values[1:] {
		rows = append(rows, store.RowToRecord(header, fromCells(line)))
	}
	return rows, nil
}

// rewrite replaces the whole tab with header plus rows.
func (s *Store) rewrite(ctx context.Context, form store.FormType, rows []store.Record) error {
	_, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, TabName(form), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear tab: %w", err)
	}

	cols := store.Columns(form)
	values := make([][]any, 0, len(rows)+1)
	values = append(values, toCells(cols))
	for _, rec := range rows {
		values = append(values, toCells(store.RecordToRow(cols, rec)))
	}

	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, TabName(form)+"!A1", &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to rewrite tab: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, form store.FormType, rec store.Record) (string, error) {
	ctx, span := tracer.Start(ctx, "sheets.Append")
	defer span.End()

	span.SetAttributes(attribute.String("form", string(form)))

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.loadAll(ctx, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load tab")
		return "", err
	}

	existing := make(map[string]bool, len(rows))
	for _, r := range rows {
		existing[r["id"]] = true
	}

	var id string
	for range store.MaxIDAttempts {
		candidate, err := store.NewID()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to generate id")
			return "", err
		}
		if !existing[candidate] {
			id = candidate
			break
		}
	}
	if id == "" {
		span.SetStatus(codes.Error, "exhausted id generation attempts")
		return "", fmt.Errorf("exhausted id generation attempts")
	}
	rec["id"] = id

	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, TabName(form), &sheets.ValueRange{
		Values: [][]any{toCells(store.RecordToRow(store.Columns(form), rec))},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to append row")
		return "", fmt.Errorf("failed to append row: %w", err)
	}

	span.SetAttributes(attribute.String("id", id))
	span.SetStatus(codes.Ok, "appended row")
	return id, nil
}

func (s *Store) List(ctx context.Context, form store.FormType, q store.ListQuery) (*store.ListResult, error) {
	ctx, span := tracer.Start(ctx, "sheets.List")
	defer span.End()

	s.mu.Lock()
	rows, err := s.loadAll(ctx, form)
	s.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load tab")
		return nil, err
	}

	res := store.ApplyQuery(rows, q)

	span.SetAttributes(attribute.Int("total", res.Total))
	span.SetStatus(codes.Ok, "listed rows")
	return res, nil
}

func (s *Store) Get(ctx context.Context, form store.FormType, id string) (store.Record, error) {
	ctx, span := tracer.Start(ctx, "sheets.Get")
	defer span.End()

	s.mu.Lock()
	rows, err := s.loadAll(ctx, form)
	s.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load tab")
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
	ctx, span := tracer.Start(ctx, "sheets.Update")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.loadAll(ctx, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load tab")
		return nil, err
	}

	idx := indexOf(rows, id)
	if idx < 0 {
		span.SetStatus(codes.Ok, "row not found")
		return nil, store.ErrNotFound
	}

	store.ApplyUpdate(form, rows[idx], fields, time.Now())

	if err := s.rewrite(ctx, form, rows); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to rewrite tab")
		return nil, err
	}

	span.SetStatus(codes.Ok, "updated row")
	return rows[idx], nil
}

func (s *Store) Delete(ctx context.Context, form store.FormType, id string) (store.Record, error) {
	ctx, span := tracer.Start(ctx, "sheets.Delete")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.loadAll(ctx, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load tab")
		return nil, err
	}

	idx := indexOf(rows, id)
	if idx < 0 {
		span.SetStatus(codes.Ok, "row not found")
		return nil, store.ErrNotFound
	}

	removed := rows[idx]
	rows = append(rows[:idx], rows[idx+1:]...)

	if err := s.rewrite(ctx, form, rows); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to rewrite tab")
		return nil, err
	}

	span.SetStatus(codes.Ok, "deleted row")
	return removed, nil
}

func (s *Store) ExportCSV(ctx context.Context, form store.FormType) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "sheets.ExportCSV")
	defer span.End()

	s.mu.Lock()
	rows, err := s.loadAll(ctx, form)
	s.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load tab")
		return nil, err
	}

	out, err := store.RenderCSV(form, rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to render csv")
		return nil, err
	}

	span.SetStatus(codes.Ok, "exported rows")
	return out, nil
}

func indexOf(rows []store.Record, id string) int {
	for i, rec := range rows {
		if rec["id"] == id {
			return i
		}
	}
	return -1
}

func toCells(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

func fromCells(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}
	return out
}
