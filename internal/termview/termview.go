// Package termview prints the product table to a terminal.
package termview

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/odyssey-erp/catalogview/internal/table"
)

const ellipsis = "…"

// Options control terminal output.
type Options struct {
	// MaxCellWidth truncates long cell text. Zero means 32.
	MaxCellWidth int
	// NoColor disables ANSI escapes regardless of the terminal.
	NoColor bool
}

type palette struct {
	header *color.Color
	low    *color.Color
	high   *color.Color
	dim    *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		header: color.New(color.Bold, color.Underline),
		low:    color.New(color.FgHiRed),
		high:   color.New(color.FgGreen, color.Bold),
		dim:    color.New(color.Faint),
	}
	if noColor {
		for _, c := range []*color.Color{p.header, p.low, p.high, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) badge(b table.Badge) *color.Color {
	switch b {
	case table.BadgeLow:
		return p.low
	case table.BadgeHigh:
		return p.high
	}
	return nil
}

// Render writes the current page of state followed by the summary line. Image
// columns are skipped.
func Render(w io.Writer, state *table.State, opts Options) error {
	if opts.MaxCellWidth <= 0 {
		opts.MaxCellWidth = 32
	}
	pal := newPalette(opts.NoColor)

	columns := make([]table.Column, 0, len(state.Columns()))
	for _, col := range state.Columns() {
		if col.Kind != table.KindImage {
			columns = append(columns, col)
		}
	}

	rows := state.Rows()
	cells := make([][]table.Cell, len(rows))
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = width(headerLabel(state, col))
	}
	for r, p := range rows {
		cells[r] = table.RenderRow(columns, p)
		for i := range columns {
			cells[r][i].Text = truncate(cells[r][i].Text, opts.MaxCellWidth)
			widths[i] = max(widths[i], width(cells[r][i].Text))
		}
	}

	bw := bufio.NewWriter(w)
	for i, col := range columns {
		if i > 0 {
			bw.WriteString("  ")
		}
		bw.WriteString(pal.header.Sprint(pad(headerLabel(state, col), widths[i], col.Kind)))
	}
	bw.WriteString("\n")

	if len(rows) == 0 {
		bw.WriteString(pal.dim.Sprint("Продуктів не знайдено"))
		bw.WriteString("\n")
	}
	for _, row := range cells {
		for i, cell := range row {
			if i > 0 {
				bw.WriteString("  ")
			}
			bw.WriteString(padColored(cell.Text, widths[i], cell.Kind, pal.badge(cell.Badge)))
		}
		bw.WriteString("\n")
	}

	summary := state.Summary()
	fmt.Fprintf(bw, "\n%s", summary.String())
	if summary.PageCount > 1 {
		bw.WriteString(pal.dim.Sprintf("  (сторінка %d з %d)", summary.PageIndex+1, summary.PageCount))
	}
	bw.WriteString("\n")
	return bw.Flush()
}

// padColored pads like pad but keeps the padding outside the colour escapes.
func padColored(s string, w int, kind table.Kind, c *color.Color) string {
	if c == nil {
		return pad(s, w, kind)
	}
	padded := pad(s, w, kind)
	gap := width(padded) - width(s)
	if kind == table.KindCurrency || kind == table.KindRating {
		return strings.Repeat(" ", gap) + c.Sprint(s)
	}
	return c.Sprint(s) + strings.Repeat(" ", gap)
}

func headerLabel(state *table.State, col table.Column) string {
	label := col.Label
	if state.Sort().Column == col.Key {
		switch state.Sort().Direction {
		case table.SortAsc:
			label += " ↑"
		case table.SortDesc:
			label += " ↓"
		}
	}
	return label
}

func width(s string) int {
	return utf8.RuneCountInString(s)
}

// truncate cuts s to limit runes, ending with an ellipsis when shortened.
// Newlines are flattened so one record stays on one line.
func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + ellipsis
}

// pad aligns numbers to the right and everything else to the left.
func pad(s string, w int, kind table.Kind) string {
	gap := w - width(s)
	if gap <= 0 {
		return s
	}
	if kind == table.KindCurrency || kind == table.KindRating {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}
