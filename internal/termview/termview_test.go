package termview

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/catalogview/internal/catalog"
	"github.com/odyssey-erp/catalogview/internal/table"
)

func rated(id int64, title, price, rating string) catalog.Product {
	return catalog.Product{
		ID:          id,
		Title:       title,
		Description: "Line one\nline two",
		Price:       decimal.NewNullDecimal(decimal.RequireFromString(price)),
		Rating:      decimal.NewNullDecimal(decimal.RequireFromString(rating)),
		Brand:       "Essence",
		Category:    "beauty",
		Thumbnail:   "https://cdn.example.com/x.png",
	}
}

func sample() []catalog.Product {
	return []catalog.Product{
		rated(1, "Essence Mascara", "9.99", "4.94"),
		rated(2, "Eyeshadow Palette", "1899.99", "3.28"),
		rated(3, "Powder Canister", "14.99", "4.5"),
	}
}

func TestRenderPlain(t *testing.T) {
	opts := table.DefaultOptions()
	opts.PageSize = 2
	state := table.New(sample(), nil, opts)
	state.ToggleSort(table.ColumnPrice)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, state, Options{NoColor: true}))
	out := buf.String()

	assert.NotContains(t, out, "\x1b[")
	assert.NotContains(t, out, "Фото")
	assert.NotContains(t, out, "cdn.example.com")
	assert.Contains(t, out, "Ціна ↑")
	assert.Contains(t, out, "Line one line two")
	assert.Contains(t, out, "9,99\u00a0$")
	assert.Contains(t, out, "Показ 1–2 із 3 продуктів")
	assert.Contains(t, out, "(сторінка 1 з 2)")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[1], "Essence Mascara"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Powder Canister"), lines[2])
}

func TestRenderColoursRatingBadges(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	state := table.New(sample(), nil, table.DefaultOptions())
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, state, Options{}))
	out := buf.String()

	assert.Contains(t, out, color.New(color.FgHiRed).Sprint("3.28"))
	assert.Contains(t, out, color.New(color.FgGreen, color.Bold).Sprint("4.94"))
	assert.Contains(t, out, color.New(color.FgGreen, color.Bold).Sprint("4.5"))
}

func TestRenderEmpty(t *testing.T) {
	state := table.New(sample(), nil, table.DefaultOptions())
	state.SetGlobalFilter("nothing matches this")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, state, Options{NoColor: true}))
	assert.Contains(t, buf.String(), "Продуктів не знайдено")
	assert.Contains(t, buf.String(), "Показ 0–0 із 0 продуктів")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "Пр…", truncate("Продукт", 3))
}

func TestLoadPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.toml")
	body := `page_size = 1
page = 2
sort = "rating"
search = "e"

[filters]
brand = "Ess"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	preset, err := LoadPreset(path)
	require.NoError(t, err)

	params := preset.Params()
	assert.Equal(t, 1, params.PageSize)
	assert.Equal(t, 1, params.PageIndex)
	assert.Equal(t, table.SortSpec{Column: table.ColumnRating, Direction: table.SortAsc}, params.Sort)
	assert.Equal(t, map[table.ColumnKey]string{table.ColumnBrand: "Ess"}, params.Filters)

	state := table.New(sample(), nil, table.DefaultOptions())
	state.Apply(params)
	rows := state.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0].ID)
}

func TestLoadPresetRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.toml")
	require.NoError(t, os.WriteFile(path, []byte("page_sise = 3\n"), 0o600))

	_, err := LoadPreset(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page_sise")
}
