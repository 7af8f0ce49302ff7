package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer(
	"github.com/gohealthalbania/booking-api/internal/store/sqlite/migrations",
)

func Up(ctx context.Context, db *sql.DB) error {
	ctx, span := tracer.Start(ctx, "Up")
	defer span.End()

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set goose dialect")
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to bring migrations up")
		return err
	}

	span.AddEvent("migrated_up")
	span.SetStatus(codes.Ok, "brought migrations up")
	return nil
}

type statement struct {
	query string
	args  []any
}

func execStatements(ctx context.Context, tx *sql.Tx, statements ...statement) error {
	for _, statement := range statements {
		_, err := tx.ExecContext(ctx, statement.query, statement.args...)
		if err != nil {
			return err
		}
	}

	return nil
}
