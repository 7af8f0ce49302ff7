package store

import "strings"

// Column schemas are fixed: the header order below is the on-disk column
// order for every backend, and lower-cased column names are the Record keys.
var (
	dentalColumns = []string{
		"ID",
		"Timestamp",
		"Name",
		"Email",
		"Phone",
		"Department",
		"Treatment",
		"Service",
		"AppointmentDate",
		"AppointmentTime",
	}
	checkupColumns = []string{
		"ID",
		"Timestamp",
		"FullName",
		"FirstName",
		"LastName",
		"Email",
		"Mobile",
		"Phone",
		"Age",
		"Address",
		"Branch",
		"Service",
		"AppointmentDate",
		"AppointmentTime",
		"Message",
	}
)

// Columns returns the header row for a form type in fixed order.
func Columns(form FormType) []string {
	if form == FormCheckup {
		return checkupColumns
	}
	return dentalColumns
}

// Keys returns the Record keys for a form type, aligned with Columns.
func Keys(form FormType) []string {
	cols := Columns(form)
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = strings.ToLower(c)
	}
	return keys
}

// HasColumn reports whether name case-insensitively matches a column of form.
func HasColumn(form FormType, name string) bool {
	lower := strings.ToLower(name)
	for _, k := range Keys(form) {
		if k == lower {
			return true
		}
	}
	return false
}

// RowToRecord maps a positional row onto a Record using the header order.
// Short rows yield empty strings for the trailing columns.
func RowToRecord(columns []string, row []string) Record {
	rec := make(Record, len(columns))
	for i, col := range columns {
		val := ""
		if i < len(row) {
			val = row[i]
		}
		rec[strings.ToLower(col)] = val
	}
	return rec
}

// RecordToRow flattens a Record into positional form following the header
// order. Missing keys become empty strings.
func RecordToRow(columns []string, rec Record) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = rec[strings.ToLower(col)]
	}
	return row
}
