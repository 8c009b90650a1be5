package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/catalogview/internal/termview"
)

const body = `{"products":[
	{"id":1,"title":"Essence Mascara","price":9.99,"rating":4.94,"brand":"Essence","category":"beauty"},
	{"id":2,"title":"Eyeshadow Palette","price":19.99,"rating":3.28,"brand":"Glamour Beauty","category":"beauty"},
	{"id":3,"title":"Calvin Klein CK One","price":49.99,"rating":4.37,"brand":"Calvin Klein","category":"fragrances"}
]}`

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunTableWithFlags(t *testing.T) {
	srv := upstream(t)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-url", srv.URL, "-no-color", "-sort", "price", "-dir", "desc", "-size", "2"}, &out)
	require.NoError(t, err)

	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[1], "Calvin Klein CK One"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Eyeshadow Palette"), lines[2])
	assert.Contains(t, out.String(), "Показ 1–2 із 3 продуктів")
}

func TestRunTableWithPresetAndFilterOverride(t *testing.T) {
	srv := upstream(t)
	preset := filepath.Join(t.TempDir(), "beauty.toml")
	require.NoError(t, os.WriteFile(preset, []byte("[filters]\ncategory = \"beauty\"\n"), 0o600))

	var out bytes.Buffer
	err := run(context.Background(), []string{"-url", srv.URL, "-no-color", "-preset", preset, "-f", "brand=Glamour"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Eyeshadow Palette")
	assert.NotContains(t, out.String(), "Essence Mascara")
	assert.Contains(t, out.String(), "Показ 1–1 із 1 продуктів")
}

func TestRunTableUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	err := run(context.Background(), []string{"-url", srv.URL}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch catalog")
}

func TestFilterFlagRejectsMalformedValue(t *testing.T) {
	f := filterFlag{}
	require.Error(t, f.Set("brand"))
	require.NoError(t, f.Set("brand=Ess=ence"))
	assert.Equal(t, "Ess=ence", f["brand"])
}

func TestMergeFlagsPrefersExplicitValues(t *testing.T) {
	preset := termview.Preset{Page: 3, PageSize: 10, Sort: "title", Direction: "desc", Search: "x"}
	mergeFlags(&preset, tableFlags{page: 1, dir: "asc", filters: filterFlag{"brand": "Chanel"}})

	assert.Equal(t, 1, preset.Page)
	assert.Equal(t, 10, preset.PageSize)
	assert.Equal(t, "title", preset.Sort)
	assert.Equal(t, "asc", preset.Direction)
	assert.Equal(t, "x", preset.Search)
	assert.Equal(t, map[string]string{"brand": "Chanel"}, preset.Filters)
}
