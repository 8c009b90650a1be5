package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ratingMin = decimal.Zero
	ratingMax = decimal.NewFromInt(5)
)

// Decode parses a `{"products": [...]}` payload. It never fails: a missing or
// malformed body yields an empty collection, non-object items are skipped and
// malformed fields degrade to blank values.
func Decode(body []byte) []Product {
	var envelope struct {
		Products []json.RawMessage `json:"products"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return []Product{}
	}
	products := make([]Product, 0, len(envelope.Products))
	for _, raw := range envelope.Products {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			continue
		}
		products = append(products, Product{
			ID:          decodeInt(fields["id"]),
			Title:       decodeString(fields["title"]),
			Description: decodeString(fields["description"]),
			Price:       decodePrice(fields["price"]),
			Rating:      decodeRating(fields["rating"]),
			Brand:       decodeString(fields["brand"]),
			Category:    decodeString(fields["category"]),
			Thumbnail:   decodeString(fields["thumbnail"]),
		})
	}
	return products
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func decodeInt(raw json.RawMessage) int64 {
	d := decodeDecimal(raw)
	if !d.Valid {
		return 0
	}
	return d.Decimal.IntPart()
}

func decodePrice(raw json.RawMessage) decimal.NullDecimal {
	d := decodeDecimal(raw)
	if d.Valid && d.Decimal.IsNegative() {
		return decimal.NullDecimal{}
	}
	return d
}

func decodeRating(raw json.RawMessage) decimal.NullDecimal {
	d := decodeDecimal(raw)
	if !d.Valid {
		return d
	}
	switch {
	case d.Decimal.LessThan(ratingMin):
		d.Decimal = ratingMin
	case d.Decimal.GreaterThan(ratingMax):
		d.Decimal = ratingMax
	}
	return d
}

// decodeDecimal accepts JSON numbers and numeric strings.
func decodeDecimal(raw json.RawMessage) decimal.NullDecimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.NullDecimal{}
	}
	text := string(raw)
	if raw[0] == '"' {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return decimal.NullDecimal{}
		}
		text = strings.TrimSpace(unquoted)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
