package table

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/catalogview/internal/catalog"
)

// ColumnKey identifies a displayable field of a product.
type ColumnKey string

const (
	ColumnThumbnail   ColumnKey = "thumbnail"
	ColumnTitle       ColumnKey = "title"
	ColumnDescription ColumnKey = "description"
	ColumnPrice       ColumnKey = "price"
	ColumnRating      ColumnKey = "rating"
	ColumnBrand       ColumnKey = "brand"
	ColumnCategory    ColumnKey = "category"
)

// Kind selects how a column value is compared and rendered.
type Kind int

const (
	KindText Kind = iota
	KindCurrency
	KindRating
	KindImage
)

// Column declares one table column.
type Column struct {
	Key        ColumnKey
	Label      string
	Kind       Kind
	Filterable bool
	Sortable   bool
	// Wrap lets long text wrap instead of being truncated.
	Wrap bool
}

// DefaultColumns returns the product table layout in display order.
func DefaultColumns() []Column {
	return []Column{
		{Key: ColumnThumbnail, Label: "Фото", Kind: KindImage},
		{Key: ColumnTitle, Label: "Назва", Kind: KindText, Filterable: true, Sortable: true},
		{Key: ColumnDescription, Label: "Опис", Kind: KindText, Filterable: true, Sortable: true, Wrap: true},
		{Key: ColumnPrice, Label: "Ціна", Kind: KindCurrency, Filterable: true, Sortable: true},
		{Key: ColumnRating, Label: "Рейтинг", Kind: KindRating, Filterable: true, Sortable: true},
		{Key: ColumnBrand, Label: "Бренд", Kind: KindText, Filterable: true, Sortable: true},
		{Key: ColumnCategory, Label: "Категорія", Kind: KindText, Filterable: true, Sortable: true},
	}
}

// Text returns the raw value of the column as text. The boolean is false when
// the field is absent, in which case no filter pattern matches it.
func (c Column) Text(p catalog.Product) (string, bool) {
	switch c.Key {
	case ColumnThumbnail:
		return p.Thumbnail, p.Thumbnail != ""
	case ColumnTitle:
		return p.Title, p.Title != ""
	case ColumnDescription:
		return p.Description, p.Description != ""
	case ColumnBrand:
		return p.Brand, p.Brand != ""
	case ColumnCategory:
		return p.Category, p.Category != ""
	case ColumnPrice:
		return decimalText(p.Price)
	case ColumnRating:
		return decimalText(p.Rating)
	}
	return "", false
}

// Compare orders two products by the column's natural order: numeric for
// price and rating, lexicographic otherwise. Absent values sort first.
func (c Column) Compare(a, b catalog.Product) int {
	switch c.Kind {
	case KindCurrency:
		return compareDecimal(a.Price, b.Price)
	case KindRating:
		return compareDecimal(a.Rating, b.Rating)
	}
	av, _ := c.Text(a)
	bv, _ := c.Text(b)
	return strings.Compare(av, bv)
}

func decimalText(d decimal.NullDecimal) (string, bool) {
	if !d.Valid {
		return "", false
	}
	return d.Decimal.String(), true
}

func compareDecimal(a, b decimal.NullDecimal) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return -1
	case !b.Valid:
		return 1
	}
	return a.Decimal.Cmp(b.Decimal)
}
