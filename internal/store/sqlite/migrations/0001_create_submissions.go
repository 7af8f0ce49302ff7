package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0001, Down0001)
}

func Up0001(ctx context.Context, tx *sql.Tx) error {
	return execStatements(ctx, tx,
		statement{query: `
CREATE TABLE dental_submissions (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	treatment TEXT NOT NULL DEFAULT '',
	service TEXT NOT NULL DEFAULT '',
	appointmentdate TEXT NOT NULL DEFAULT '',
	appointmenttime TEXT NOT NULL DEFAULT ''
);
`},
		statement{query: `
CREATE TABLE checkup_submissions (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL DEFAULT '',
	fullname TEXT NOT NULL DEFAULT '',
	firstname TEXT NOT NULL DEFAULT '',
	lastname TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	mobile TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	age TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	branch TEXT NOT NULL DEFAULT '',
	service TEXT NOT NULL DEFAULT '',
	appointmentdate TEXT NOT NULL DEFAULT '',
	appointmenttime TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL DEFAULT ''
);
`})
}

func Down0001(ctx context.Context, tx *sql.Tx) error {
	return execStatements(ctx, tx,
		statement{query: `DROP TABLE checkup_submissions;`},
		statement{query: `DROP TABLE dental_submissions;`})
}
