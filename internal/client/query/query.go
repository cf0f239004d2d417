package query

import (
	"slices"
	"strings"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filters are ANDed. Empty fields do not constrain. Text is keyed by the
// column names of Columns.Text; unknown keys are ignored.
type Filters struct {
	Date      string
	DateStart string
	DateEnd   string
	Month     string
	Year      string
	Text      map[string]string
}

func (f Filters) IsZero() bool {
	if f.Date != "" || f.DateStart != "" || f.DateEnd != "" || f.Month != "" || f.Year != "" {
		return false
	}
	for _, v := range f.Text {
		if v != "" {
			return false
		}
	}
	return true
}

type Sort struct {
	Key       string
	Direction Direction
}

// State is the list state of one screen. Page is zero-based.
type State struct {
	Filters  Filters
	Sort     Sort
	Page     int
	PageSize int
}

type Result[T any] struct {
	Items     []T
	Total     int
	Page      int
	PageCount int
}

// Filter returns the records matching every active filter, in input order.
func Filter[T any](records []T, cols Columns[T], f Filters) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if matches(r, cols, f) {
			out = append(out, r)
		}
	}
	return out
}

func matches[T any](r T, cols Columns[T], f Filters) bool {
	date := ""
	if cols.Date != nil {
		date = cols.Date(r)
	}
	if f.Date != "" && date != f.Date {
		return false
	}
	if f.DateStart != "" && date < f.DateStart {
		return false
	}
	if f.DateEnd != "" && date > f.DateEnd {
		return false
	}
	if f.Month != "" && !strings.HasPrefix(date, f.Month) {
		return false
	}
	if f.Year != "" && !strings.HasPrefix(date, f.Year) {
		return false
	}

	for key, want := range f.Text {
		if want == "" {
			continue
		}
		get, ok := cols.Text[key]
		if !ok {
			continue
		}
		if !strings.Contains(strings.ToLower(get(r)), strings.ToLower(want)) {
			return false
		}
	}
	return true
}

// SortRecords returns a stably sorted copy of records. An unknown key keeps
// the input order.
func SortRecords[T any](records []T, cols Columns[T], s Sort) []T {
	out := slices.Clone(records)
	key, ok := cols.Sort[s.Key]
	if !ok {
		return out
	}

	sign := 1
	if s.Direction == Desc {
		sign = -1
	}

	slices.SortStableFunc(out, func(a, b T) int {
		return sign * compare(key, a, b)
	})
	return out
}

func compare[T any](key SortKey[T], a, b T) int {
	if key.Number != nil {
		x, y := key.Number(a), key.Number(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return strings.Compare(key.Text(a), key.Text(b))
}

// PageCount is the number of pages of size holding total records.
func PageCount(total, size int) int {
	if total == 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Paginate returns window page of records. A size <= 0 means one page
// holding everything; out-of-range pages are empty.
func Paginate[T any](records []T, page, size int) []T {
	if size <= 0 {
		if page == 0 {
			return records
		}
		return records[:0]
	}
	start := page * size
	if page < 0 || start >= len(records) {
		return records[:0]
	}
	end := min(start+size, len(records))
	return records[start:end]
}

// ClampPage brings page into [0, pageCount-1], or 0 when there are no pages.
func ClampPage(page, pageCount int) int {
	if page >= pageCount {
		page = pageCount - 1
	}
	return max(page, 0)
}

// Apply filters, sorts and paginates records. Total counts the filtered set.
func Apply[T any](records []T, cols Columns[T], st State) Result[T] {
	filtered := SortRecords(Filter(records, cols, st.Filters), cols, st.Sort)
	count := PageCount(len(filtered), st.PageSize)
	page := ClampPage(st.Page, count)
	return Result[T]{
		Items:     Paginate(filtered, page, st.PageSize),
		Total:     len(filtered),
		Page:      page,
		PageCount: count,
	}
}
