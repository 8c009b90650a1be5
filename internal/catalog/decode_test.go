package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProducts(t *testing.T) {
	body := []byte(`{
		"products": [
			{"id": 1, "title": "Essence Mascara Lash Princess", "description": "Popular mascara",
			 "price": 9.99, "rating": 4.94, "brand": "Essence", "category": "beauty",
			 "thumbnail": "https://cdn.dummyjson.com/1/thumbnail.png", "stock": 5},
			{"id": "2", "title": "Eyeshadow Palette", "price": "19.99", "rating": 3.28,
			 "brand": "Glamour Beauty", "category": "beauty"}
		],
		"total": 2, "skip": 0, "limit": 30
	}`)

	products := Decode(body)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "Essence Mascara Lash Princess", first.Title)
	assert.Equal(t, "Popular mascara", first.Description)
	assert.True(t, first.Price.Valid)
	assert.Equal(t, "9.99", first.Price.Decimal.String())
	assert.Equal(t, "4.94", first.Rating.Decimal.String())
	assert.Equal(t, "Essence", first.Brand)
	assert.Equal(t, "beauty", first.Category)
	assert.Equal(t, "https://cdn.dummyjson.com/1/thumbnail.png", first.Thumbnail)

	second := products[1]
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, "19.99", second.Price.Decimal.String())
	assert.Equal(t, "", second.Thumbnail)
}

func TestDecodeMalformedBodies(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"not json":       `<html>oops</html>`,
		"array":          `[{"id": 1}]`,
		"missing key":    `{"items": [{"id": 1}]}`,
		"null products":  `{"products": null}`,
		"wrong type":     `{"products": "none"}`,
		"truncated json": `{"products": [{"id": 1,`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			products := Decode([]byte(body))
			assert.NotNil(t, products)
			assert.Empty(t, products)
		})
	}
}

func TestDecodeDegradesMalformedFields(t *testing.T) {
	body := []byte(`{"products": [
		{"id": 1, "title": 42, "price": "abc", "rating": 7.5, "brand": null},
		"not an object",
		{"id": 3, "title": "Negative", "price": -3, "rating": -1},
		null
	]}`)

	products := Decode(body)
	require.Len(t, products, 2)

	assert.Equal(t, "", products[0].Title)
	assert.False(t, products[0].Price.Valid)
	assert.Equal(t, "5", products[0].Rating.Decimal.String())
	assert.Equal(t, "", products[0].Brand)

	assert.Equal(t, int64(3), products[1].ID)
	assert.False(t, products[1].Price.Valid)
	assert.True(t, products[1].Rating.Valid)
	assert.Equal(t, "0", products[1].Rating.Decimal.String())
}
