package cataloghttp

import (
	"time"

	"github.com/odyssey-erp/catalogview/internal/catalog"
	"github.com/odyssey-erp/catalogview/internal/table"
)

// pageWindow is the number of numbered page buttons in the pager.
const pageWindow = 5

var pageSizeChoices = []int{5, 10, 20, 50}

// HeaderView describes one column header and its filter input.
type HeaderView struct {
	Key        string
	Label      string
	Sortable   bool
	Filterable bool
	Direction  string
	Indicator  string
	AriaSort   string
	Filter     string
}

// CellView is a rendered table cell.
type CellView struct {
	Column     string
	Text       string
	BadgeColor string
	Image      *table.Image
	Wrap       bool
}

// RowView is one product row.
type RowView struct {
	ID    int64
	Cells []CellView
}

// PageLink is a numbered pager button.
type PageLink struct {
	Index   int
	Number  int
	Current bool
}

// SizeOption is an entry of the rows-per-page selector.
type SizeOption struct {
	Value    int
	Selected bool
}

// PageView is the template model of the product table page.
type PageView struct {
	CSRFToken string
	Loading   bool
	Failed    bool
	FetchedAt time.Time
	Global    string
	Headers   []HeaderView
	Rows      []RowView
	Summary   string
	PageIndex int
	PageCount int
	PageSize  int
	HasPrev   bool
	HasNext   bool
	PageLinks []PageLink
	PageSizes []SizeOption
}

func buildPageView(state *table.State, snap catalog.Snapshot, csrfToken string) PageView {
	summary := state.Summary()
	vm := PageView{
		CSRFToken: csrfToken,
		Loading:   snap.Loading,
		Failed:    snap.Err != nil,
		FetchedAt: snap.FetchedAt,
		Global:    state.GlobalFilter(),
		Headers:   buildHeaders(state),
		Rows:      buildRows(state.Columns(), state.Rows()),
		Summary:   summary.String(),
		PageIndex: state.PageIndex(),
		PageCount: state.PageCount(),
		PageSize:  state.PageSize(),
	}
	vm.HasPrev = vm.PageIndex > 0
	vm.HasNext = vm.PageIndex < vm.PageCount-1
	for _, idx := range state.PageLinks(pageWindow) {
		vm.PageLinks = append(vm.PageLinks, PageLink{Index: idx, Number: idx + 1, Current: idx == vm.PageIndex})
	}
	vm.PageSizes = sizeOptions(vm.PageSize)
	return vm
}

func buildHeaders(state *table.State) []HeaderView {
	columns := state.Columns()
	headers := make([]HeaderView, 0, len(columns))
	for _, col := range columns {
		dir := state.Direction(col.Key)
		header := HeaderView{
			Key:        string(col.Key),
			Label:      col.Label,
			Sortable:   col.Sortable,
			Filterable: col.Filterable,
			Direction:  string(dir),
			Filter:     state.Filter(col.Key),
		}
		switch dir {
		case table.SortAsc:
			header.Indicator = "▲"
			header.AriaSort = "ascending"
		case table.SortDesc:
			header.Indicator = "▼"
			header.AriaSort = "descending"
		default:
			if col.Sortable {
				header.Indicator = "↕"
			}
		}
		headers = append(headers, header)
	}
	return headers
}

func buildRows(columns []table.Column, products []catalog.Product) []RowView {
	rows := make([]RowView, 0, len(products))
	for _, p := range products {
		cells := table.RenderRow(columns, p)
		row := RowView{ID: p.ID, Cells: make([]CellView, 0, len(cells))}
		for _, cell := range cells {
			row.Cells = append(row.Cells, CellView{
				Column:     string(cell.Column),
				Text:       cell.Text,
				BadgeColor: cell.Badge.Color(),
				Image:      cell.Image,
				Wrap:       cell.Wrap,
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// sizeOptions lists the fixed choices plus the current size when it is custom.
func sizeOptions(current int) []SizeOption {
	options := make([]SizeOption, 0, len(pageSizeChoices)+1)
	found := false
	for _, size := range pageSizeChoices {
		if size == current {
			found = true
		}
		if !found && current < size {
			options = append(options, SizeOption{Value: current, Selected: true})
			found = true
		}
		options = append(options, SizeOption{Value: size, Selected: size == current})
	}
	if !found {
		options = append(options, SizeOption{Value: current, Selected: true})
	}
	return options
}
