package sqlite_test

import (
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gohealthalbania/booking-api/internal/store"
	"github.com/gohealthalbania/booking-api/internal/store/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "bookings.db"))
	require.NoError(t, err, "should open the database")
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func checkupRecord(first, last string) store.Record {
	rec := store.Record{
		"timestamp":       "2024-05-01T09:30:00Z",
		"fullname":        strings.TrimSpace(first + " " + last),
		"firstname":       first,
		"lastname":        last,
		"email":           "a@x.com",
		"branch":          "Tirana",
		"appointmentdate": "2024-05-01",
		"appointmenttime": "10:00",
	}
	for _, key := range store.Keys(store.FormCheckup) {
		if key == "id" {
			continue
		}
		if _, ok := rec[key]; !ok {
			rec[key] = ""
		}
	}
	return rec
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	rec := checkupRecord("Ana", "Doda")
	id, err := st.Append(ctx, store.FormCheckup, rec)
	require.NoError(t, err, "should append")
	require.NotEmpty(t, id, "append assigns an id")

	got, err := st.Get(ctx, store.FormCheckup, id)
	require.NoError(t, err, "should get the appended row")

	assert.Equal(t, id, got["id"], "id should round-trip")
	for _, key := range store.Keys(store.FormCheckup) {
		assert.Equal(t, rec[key], got[key], "field %q should round-trip", key)
	}
}

func TestStoreUpdate(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	id, err := st.Append(ctx, store.FormCheckup, checkupRecord("Ana", "Doda"))
	require.NoError(t, err, "should append")

	updated, err := st.Update(ctx, store.FormCheckup, id, map[string]string{"branch": "Durres"})
	require.NoError(t, err, "should update")
	assert.Equal(t, "Durres", updated["branch"], "named field should change")
	assert.NotEqual(t, "2024-05-01T09:30:00Z", updated["timestamp"], "timestamp should refresh")

	_, err = st.Update(ctx, store.FormCheckup, "NOPE0000", map[string]string{"branch": "x"})
	assert.ErrorIs(t, err, store.ErrNotFound, "unknown id should signal not found")
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	id, err := st.Append(ctx, store.FormCheckup, checkupRecord("Ana", "Doda"))
	require.NoError(t, err, "should append")

	removed, err := st.Delete(ctx, store.FormCheckup, id)
	require.NoError(t, err, "should delete")
	assert.Equal(t, "Ana Doda", removed["fullname"], "delete returns the removed row")

	_, err = st.Get(ctx, store.FormCheckup, id)
	assert.ErrorIs(t, err, store.ErrNotFound, "deleted row should be gone")

	_, err = st.Delete(ctx, store.FormCheckup, id)
	assert.ErrorIs(t, err, store.ErrNotFound, "double delete should signal not found")
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	_, err := st.Append(ctx, store.FormCheckup, checkupRecord("Ana", "Doda"))
	require.NoError(t, err, "should append")
	_, err = st.Append(ctx, store.FormCheckup, checkupRecord("Eri", "Hoxha"))
	require.NoError(t, err, "should append")

	t.Run("all rows", func(t *testing.T) {
		res, err := st.List(ctx, store.FormCheckup, store.ListQuery{})
		require.NoError(t, err, "should list")
		assert.Equal(t, 2, res.Total, "should count every row")
	})

	t.Run("search filters", func(t *testing.T) {
		res, err := st.List(ctx, store.FormCheckup, store.ListQuery{Search: "hoxha"})
		require.NoError(t, err, "should list")
		require.Equal(t, 1, res.Total, "only one row matches")
		assert.Equal(t, "Eri Hoxha", res.Data[0]["fullname"], "should keep the matching row")
	})
}

func TestStoreExportCSV(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	_, err := st.Append(ctx, store.FormCheckup, checkupRecord("Ana", "Doda"))
	require.NoError(t, err, "should append")

	raw, err := st.ExportCSV(ctx, store.FormCheckup)
	require.NoError(t, err, "should export")

	r := csv.NewReader(strings.NewReader(string(raw)))
	lines, err := r.ReadAll()
	require.NoError(t, err, "export should be valid csv")
	require.Len(t, lines, 2, "header plus one row")
	assert.Equal(t, store.Columns(store.FormCheckup), lines[0], "first line is the header")
}
