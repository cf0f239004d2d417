package query

import (
	"maps"
	"sync"
)

// DefaultPageSize is the page size of a new View.
const DefaultPageSize = 10

// View holds the records and list state of one screen. Any change to the
// records, filters, sort or page size sends it back to page 0.
type View[T any] struct {
	mu      sync.RWMutex
	cols    Columns[T]
	records []T
	state   State
}

// NewView starts sorted by date, newest first.
func NewView[T any](cols Columns[T], pageSize int) *View[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View[T]{
		cols: cols,
		state: State{
			Filters:  Filters{Text: map[string]string{}},
			Sort:     Sort{Key: cols.DateKey, Direction: Desc},
			PageSize: pageSize,
		},
	}
}

func (v *View[T]) Columns() Columns[T] {
	return v.cols
}

func (v *View[T]) SetRecords(records []T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.records = records
	v.state.Page = 0
}

func (v *View[T]) Records() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.records
}

// State returns a copy of the current list state.
func (v *View[T]) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	st := v.state
	st.Filters.Text = maps.Clone(v.state.Filters.Text)
	return st
}

// SetFilters replaces all filters.
func (v *View[T]) SetFilters(f Filters) {
	v.mu.Lock()
	defer v.mu.Unlock()
	f.Text = maps.Clone(f.Text)
	if f.Text == nil {
		f.Text = map[string]string{}
	}
	v.state.Filters = f
	v.state.Page = 0
}

// UpdateFilters applies fn to a copy of the filters and stores the result.
func (v *View[T]) UpdateFilters(fn func(*Filters)) {
	f := v.State().Filters
	fn(&f)
	v.SetFilters(f)
}

func (v *View[T]) ClearFilters() {
	v.SetFilters(Filters{})
}

// ToggleSort flips the direction when key is already the sort key and
// sorts ascending by key otherwise.
func (v *View[T]) ToggleSort(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.Sort.Key == key {
		if v.state.Sort.Direction == Asc {
			v.state.Sort.Direction = Desc
		} else {
			v.state.Sort.Direction = Asc
		}
	} else {
		v.state.Sort = Sort{Key: key, Direction: Asc}
	}
	v.state.Page = 0
}

// SetPage moves to page, clamped to the current page range.
func (v *View[T]) SetPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	total := len(Filter(v.records, v.cols, v.state.Filters))
	v.state.Page = ClampPage(page, PageCount(total, v.state.PageSize))
}

func (v *View[T]) SetPageSize(size int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if size <= 0 {
		size = DefaultPageSize
	}
	v.state.PageSize = size
	v.state.Page = 0
}

// Result is the current page.
func (v *View[T]) Result() Result[T] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Apply(v.records, v.cols, v.state)
}

// Filtered is the whole filtered and sorted set.
func (v *View[T]) Filtered() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return SortRecords(Filter(v.records, v.cols, v.state.Filters), v.cols, v.state.Sort)
}

// Stats aggregates the filtered set.
func (v *View[T]) Stats() Stats {
	return Aggregate(v.Filtered(), v.cols)
}
