// Package table implements the product table state machine: per-column and
// global text filters, single-column sorting and pagination over an immutable
// in-memory collection.
package table

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/odyssey-erp/catalogview/internal/catalog"
)

// DefaultPageSize is the number of rows per page when none is configured.
const DefaultPageSize = 5

// SortDirection is the direction of the active sort.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec holds at most one active sort.
type SortSpec struct {
	Column    ColumnKey     `json:"column,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// Active reports whether a sort is applied.
func (s SortSpec) Active() bool {
	return s.Column != "" && s.Direction != SortNone
}

// Options tune the state machine.
type Options struct {
	PageSize int
	// FoldCase switches filters to case-insensitive containment.
	FoldCase bool
	// SortRemoval keeps the unsorted step in the header toggle cycle.
	SortRemoval bool
}

// DefaultOptions returns five rows per page, case-sensitive filters and the
// three-state sort cycle.
func DefaultOptions() Options {
	return Options{PageSize: DefaultPageSize, SortRemoval: true}
}

// State owns filters, sort and pagination for one table instance and keeps
// the derived view up to date after every mutation.
type State struct {
	opts    Options
	columns []Column
	byKey   map[ColumnKey]Column
	records []catalog.Product
	folder  cases.Caser

	filters   map[ColumnKey]string
	global    string
	sort      SortSpec
	pageIndex int
	pageSize  int

	view []catalog.Product
}

// New creates a table over records. The records slice is never modified.
func New(records []catalog.Product, columns []Column, opts Options) *State {
	if len(columns) == 0 {
		columns = DefaultColumns()
	}
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	byKey := make(map[ColumnKey]Column, len(columns))
	for _, col := range columns {
		byKey[col.Key] = col
	}
	s := &State{
		opts:     opts,
		columns:  columns,
		byKey:    byKey,
		records:  records,
		folder:   cases.Fold(),
		filters:  make(map[ColumnKey]string),
		pageSize: opts.PageSize,
	}
	s.recompute()
	return s
}

// Columns returns the column model.
func (s *State) Columns() []Column {
	return s.columns
}

// SetFilter replaces the pattern of one filterable column. An empty pattern
// removes the constraint. Unknown or non-filterable columns are ignored.
func (s *State) SetFilter(key ColumnKey, pattern string) {
	col, ok := s.byKey[key]
	if !ok || !col.Filterable {
		return
	}
	if pattern == "" {
		delete(s.filters, key)
	} else {
		s.filters[key] = pattern
	}
	s.recompute()
}

// Filter returns the pattern of a column.
func (s *State) Filter(key ColumnKey) string {
	return s.filters[key]
}

// SetGlobalFilter replaces the pattern matched against every filterable column.
func (s *State) SetGlobalFilter(pattern string) {
	s.global = pattern
	s.recompute()
}

// GlobalFilter returns the global pattern.
func (s *State) GlobalFilter() string {
	return s.global
}

// ToggleSort advances the sort cycle of a column and clears any other sort.
func (s *State) ToggleSort(key ColumnKey) {
	col, ok := s.byKey[key]
	if !ok || !col.Sortable {
		return
	}
	current := SortNone
	if s.sort.Column == key {
		current = s.sort.Direction
	}
	next := s.nextDirection(current)
	if next == SortNone {
		s.sort = SortSpec{}
	} else {
		s.sort = SortSpec{Column: key, Direction: next}
	}
	s.recompute()
}

func (s *State) nextDirection(current SortDirection) SortDirection {
	switch current {
	case SortAsc:
		return SortDesc
	case SortDesc:
		if s.opts.SortRemoval {
			return SortNone
		}
		return SortAsc
	}
	return SortAsc
}

// Sort returns the active sort.
func (s *State) Sort() SortSpec {
	return s.sort
}

// Direction returns the sort direction of a column.
func (s *State) Direction(key ColumnKey) SortDirection {
	if s.sort.Column != key {
		return SortNone
	}
	return s.sort.Direction
}

// SetPageIndex moves to a page, clamped into the valid range.
func (s *State) SetPageIndex(index int) {
	s.pageIndex = index
	s.clampPage()
}

// PageIndex returns the zero-based current page.
func (s *State) PageIndex() int {
	return s.pageIndex
}

// SetPageSize changes the page size, keeping the first visible row on the
// current page. Sizes below one become one.
func (s *State) SetPageSize(size int) {
	if size < 1 {
		size = 1
	}
	firstRow := s.pageIndex * s.pageSize
	s.pageSize = size
	s.pageIndex = firstRow / size
	s.clampPage()
}

// PageSize returns the rows per page.
func (s *State) PageSize() int {
	return s.pageSize
}

// Reset clears filters and sort and returns to the first page.
func (s *State) Reset() {
	s.filters = make(map[ColumnKey]string)
	s.global = ""
	s.sort = SortSpec{}
	s.pageIndex = 0
	s.pageSize = s.opts.PageSize
	s.recompute()
}

// Rows returns the current page window.
func (s *State) Rows() []catalog.Product {
	start := s.pageIndex * s.pageSize
	if start >= len(s.view) {
		return []catalog.Product{}
	}
	end := start + min(s.pageSize, len(s.view)-start)
	return slices.Clone(s.view[start:end])
}

// Filtered returns every filtered and sorted record across all pages.
func (s *State) Filtered() []catalog.Product {
	return slices.Clone(s.view)
}

// FilteredCount is the number of records that pass the filters.
func (s *State) FilteredCount() int {
	return len(s.view)
}

// TotalCount is the size of the unfiltered collection.
func (s *State) TotalCount() int {
	return len(s.records)
}

// PageCount is ceil(FilteredCount / PageSize); zero when nothing matches.
// Written as (n-1)/size+1 so a size near math.MaxInt cannot overflow.
func (s *State) PageCount() int {
	n := len(s.view)
	if n == 0 {
		return 0
	}
	return (n-1)/s.pageSize + 1
}

func (s *State) recompute() {
	filtered := make([]catalog.Product, 0, len(s.records))
	for _, rec := range s.records {
		if s.matches(rec) {
			filtered = append(filtered, rec)
		}
	}
	if s.sort.Active() {
		if col, ok := s.byKey[s.sort.Column]; ok {
			desc := s.sort.Direction == SortDesc
			slices.SortStableFunc(filtered, func(a, b catalog.Product) int {
				if desc {
					return col.Compare(b, a)
				}
				return col.Compare(a, b)
			})
		}
	}
	s.view = filtered
	s.clampPage()
}

func (s *State) clampPage() {
	last := s.PageCount() - 1
	if s.pageIndex > last {
		s.pageIndex = last
	}
	if s.pageIndex < 0 {
		s.pageIndex = 0
	}
}

// matches applies AND over every non-empty column pattern and, when set, the
// global pattern against any filterable column.
func (s *State) matches(rec catalog.Product) bool {
	for key, pattern := range s.filters {
		if !s.contains(s.byKey[key], rec, pattern) {
			return false
		}
	}
	if s.global == "" {
		return true
	}
	for _, col := range s.columns {
		if col.Filterable && s.contains(col, rec, s.global) {
			return true
		}
	}
	return false
}

func (s *State) contains(col Column, rec catalog.Product, pattern string) bool {
	value, ok := col.Text(rec)
	if !ok {
		return false
	}
	if s.opts.FoldCase {
		return strings.Contains(s.folder.String(value), s.folder.String(pattern))
	}
	return strings.Contains(value, pattern)
}
