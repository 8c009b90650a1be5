package table

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/odyssey-erp/catalogview/internal/catalog"
)

// CurrencySymbol is appended to formatted prices, following uk-UA placement.
const CurrencySymbol = "$"

const nbsp = "\u00a0"

// RatingThreshold separates low from high ratings; the boundary is high.
var RatingThreshold = decimal.RequireFromString("4.5")

var priceLocale = language.Ukrainian

// Badge classifies a rating.
type Badge string

const (
	BadgeNone Badge = ""
	BadgeLow  Badge = "low"
	BadgeHigh Badge = "high"
)

// Color maps the badge to its semantic colour.
func (b Badge) Color() string {
	switch b {
	case BadgeLow:
		return "error"
	case BadgeHigh:
		return "success"
	}
	return ""
}

// RatingBadge classifies rating as low below RatingThreshold, high otherwise.
func RatingBadge(rating decimal.NullDecimal) Badge {
	if !rating.Valid {
		return BadgeNone
	}
	if rating.Decimal.LessThan(RatingThreshold) {
		return BadgeLow
	}
	return BadgeHigh
}

// FormatPrice renders a price with uk-UA grouping and exactly two fraction
// digits, e.g. "1 899,99 $" with non-breaking spaces. Invalid prices render blank.
func FormatPrice(price decimal.NullDecimal) string {
	if !price.Valid {
		return ""
	}
	value := price.Decimal.Round(2).InexactFloat64()
	p := message.NewPrinter(priceLocale)
	return p.Sprint(number.Decimal(value, number.Scale(2))) + nbsp + CurrencySymbol
}

// Image is an image reference with alternate text.
type Image struct {
	Src string
	Alt string
}

// Cell is the rendered form of one column value.
type Cell struct {
	Column ColumnKey
	Kind   Kind
	Text   string
	Badge  Badge
	Image  *Image
	Wrap   bool
}

// Render applies the column's display rule to a product.
func (c Column) Render(p catalog.Product) Cell {
	cell := Cell{Column: c.Key, Kind: c.Kind, Wrap: c.Wrap}
	switch c.Kind {
	case KindCurrency:
		cell.Text = FormatPrice(p.Price)
	case KindRating:
		cell.Text, _ = decimalText(p.Rating)
		cell.Badge = RatingBadge(p.Rating)
	case KindImage:
		if src, ok := c.Text(p); ok {
			cell.Image = &Image{Src: src, Alt: p.Title}
		}
	default:
		cell.Text, _ = c.Text(p)
	}
	return cell
}

// RenderRow renders every column for a product.
func RenderRow(columns []Column, p catalog.Product) []Cell {
	cells := make([]Cell, 0, len(columns))
	for _, col := range columns {
		cells = append(cells, col.Render(p))
	}
	return cells
}
