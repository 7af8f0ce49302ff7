package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRows(n int) []Record {
	rows := make([]Record, 0, n)
	for i := range n {
		rows = append(rows, Record{
			"id":        fmt.Sprintf("ROW%05d", i),
			"timestamp": fmt.Sprintf("2024-05-01T10:%02d:00Z", i),
			"name":      fmt.Sprintf("Person %d", i),
		})
	}
	return rows
}

func TestApplyQuery(t *testing.T) {
	t.Run("defaults sort newest first", func(t *testing.T) {
		res := ApplyQuery(makeRows(3), ListQuery{})

		require.Len(t, res.Data, 3, "all rows fit on one page")
		assert.Equal(t, "ROW00002", res.Data[0]["id"], "newest row should come first")
		assert.Equal(t, 1, res.Page, "page should default to 1")
		assert.Equal(t, 1, res.TotalPages, "three rows fit on one page")
	})

	t.Run("ascending sort by timestamp", func(t *testing.T) {
		res := ApplyQuery(makeRows(3), ListQuery{SortBy: "timestamp", SortOrder: "asc"})

		require.Len(t, res.Data, 3, "all rows fit on one page")

		prev := ""
		for _, rec := range res.Data {
			assert.LessOrEqual(t, prev, rec["timestamp"], "timestamps should be non-decreasing")
			prev = rec["timestamp"]
		}
	})

	t.Run("search matches any field case-insensitively", func(t *testing.T) {
		rows := makeRows(3)
		rows[1]["name"] = "Dental Checkup"

		res := ApplyQuery(rows, ListQuery{Search: "dental"})

		require.Len(t, res.Data, 1, "only the matching row should survive the filter")
		assert.Equal(t, "ROW00001", res.Data[0]["id"], "should keep the matching row")
		assert.Equal(t, 1, res.Total, "total counts filtered rows")
	})

	t.Run("pagination slices the sorted set", func(t *testing.T) {
		res := ApplyQuery(makeRows(25), ListQuery{SortBy: "timestamp", SortOrder: "asc", Page: 2, Limit: 10})

		require.Len(t, res.Data, 10, "page 2 of 25 holds 10 rows")
		assert.Equal(t, "ROW00010", res.Data[0]["id"], "page 2 starts at row 11")
		assert.Equal(t, "ROW00019", res.Data[9]["id"], "page 2 ends at row 20")
		assert.Equal(t, 25, res.Total, "total counts every row")
		assert.Equal(t, 3, res.TotalPages, "25 rows at limit 10 span 3 pages")
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		res := ApplyQuery(makeRows(5), ListQuery{Page: 4, Limit: 10})

		assert.Empty(t, res.Data, "there is no page 4")
		assert.Equal(t, 5, res.Total, "total is unaffected by the page")
	})

	t.Run("row index names the position in the sorted set", func(t *testing.T) {
		res := ApplyQuery(makeRows(25), ListQuery{SortBy: "timestamp", SortOrder: "asc", Page: 2, Limit: 10})

		require.NotEmpty(t, res.Data, "page 2 should have rows")
		assert.Equal(t, "10", res.Data[0][RowIndexKey], "first row of page 2 is position 10")
	})

	t.Run("returned records are copies", func(t *testing.T) {
		rows := makeRows(1)
		res := ApplyQuery(rows, ListQuery{})

		require.Len(t, res.Data, 1, "should return the row")
		res.Data[0]["name"] = "mutated"
		assert.Equal(t, "Person 0", rows[0]["name"], "source rows should be untouched")
	})
}
