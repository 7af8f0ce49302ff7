package store

import (
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultSortBy    = "timestamp"
	DefaultSortOrder = "desc"
	DefaultLimit     = 10
)

// RowIndexKey carries a row's position within the filtered-and-sorted set on
// each returned record. It is computed per List call, never persisted.
const RowIndexKey = "_rowindex"

type ListQuery struct {
	// Case-insensitive substring matched against every field value.
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

func (q ListQuery) withDefaults() ListQuery {
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}
	if q.SortOrder == "" {
		q.SortOrder = DefaultSortOrder
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	return q
}

type ListResult struct {
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	TotalPages int      `json:"totalPages"`
	Data       []Record `json:"data"`
}

// ApplyQuery runs the shared filter/sort/paginate pipeline over a full row
// set. All backends delegate here so the query semantics cannot drift between
// them: filtering matches any field, sorting is a stable lexicographic
// comparison of the string values (missing fields compare as empty, so an
// unknown sortBy is a no-op), and pagination slices the sorted set.
func ApplyQuery(rows []Record, q ListQuery) *ListResult {
	q = q.withDefaults()

	filtered := rows
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		filtered = make([]Record, 0, len(rows))
		for _, rec := range rows {
			for _, val := range rec {
				if strings.Contains(strings.ToLower(val), needle) {
					filtered = append(filtered, rec)
					break
				}
			}
		}
	}

	key := strings.ToLower(q.SortBy)
	asc := strings.EqualFold(q.SortOrder, "asc")
	sort.SliceStable(filtered, func(i, j int) bool {
		cmp := strings.Compare(filtered[i][key], filtered[j][key])
		if asc {
			return cmp < 0
		}
		return cmp > 0
	})

	total := len(filtered)
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	data := make([]Record, 0, end-start)
	for i, rec := range filtered[start:end] {
		out := rec.Clone()
		out[RowIndexKey] = strconv.Itoa(start + i)
		data = append(data, out)
	}

	return &ListResult{
		Total:      total,
		Page:       q.Page,
		TotalPages: (total + q.Limit - 1) / q.Limit,
		Data:       data,
	}
}
