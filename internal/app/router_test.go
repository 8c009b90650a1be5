package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/catalogview/internal/catalog"
	cataloghttp "github.com/odyssey-erp/catalogview/internal/catalog/http"
	"github.com/odyssey-erp/catalogview/internal/observability"
	"github.com/odyssey-erp/catalogview/internal/shared"
	"github.com/odyssey-erp/catalogview/internal/theme"
	"github.com/odyssey-erp/catalogview/internal/view"
	"github.com/odyssey-erp/catalogview/jobs"
	_ "github.com/odyssey-erp/catalogview/testing"
)

const upstreamBody = `{"products":[
	{"id":1,"title":"Essence Mascara Lash Princess","price":9.99,"rating":4.94,"brand":"Essence","category":"beauty","thumbnail":"https://cdn.dummyjson.com/1.png"},
	{"id":2,"title":"Eyeshadow Palette with Mirror","price":19.99,"rating":3.28,"brand":"Glamour Beauty","category":"beauty"},
	{"id":3,"title":"Powder Canister","price":14.99,"rating":3.82,"brand":"Velvet Touch","category":"beauty"},
	{"id":4,"title":"Red Lipstick","price":12.99,"rating":4.36,"brand":"Chic Cosmetics","category":"beauty"},
	{"id":5,"title":"Red Nail Polish","price":8.99,"rating":4.32,"brand":"Nail Couture","category":"beauty"},
	{"id":6,"title":"Calvin Klein CK One","price":49.99,"rating":4.37,"brand":"Calvin Klein","category":"fragrances"},
	{"id":7,"title":"Chanel Coco Noir Eau De","price":129.99,"rating":4.26,"brand":"Chanel","category":"fragrances"}
]}`

var csrfPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	if cookies := rr.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return rr
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) csrfToken() string {
	c.t.Helper()
	match := csrfPattern.FindStringSubmatch(c.get("/products/").Body.String())
	require.Len(c.t, match, 2)
	return match[1]
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, upstreamBody)
	}))
	t.Cleanup(upstream.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	cfg := &Config{AppEnv: "test", TablePageSize: 5, TableSortRemoval: true, ThemeDefault: "light", AppRequestTimeout: 5 * time.Second}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics()

	service := catalog.NewService(
		catalog.NewClient(upstream.URL, time.Second),
		catalog.NewCache(redisClient, time.Minute),
		logger,
		catalog.NewMetrics(metrics.Registerer()),
	)
	service.Start(context.Background())
	select {
	case <-service.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("catalog not loaded")
	}

	templates, err := view.NewEngine()
	require.NoError(t, err)
	csrf := shared.NewCSRFManager("csrf-secret")
	themes := theme.NewStore(cfg.DefaultTheme())

	return NewRouter(RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: shared.NewSessionManager(redisClient, "catalogview_session", "session-secret", time.Hour, false),
		CSRFManager:    csrf,
		Themes:         themes,
		CatalogHandler: cataloghttp.NewHandler(logger, service, templates, csrf, themes, nil, cfg.TableOptions()),
		JobHandler:     jobs.NewHandler(nil, logger),
		Metrics:        metrics,
	})
}

func TestRouterServesTableWithSecurityHeaders(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t)}

	rr := c.get("/products/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Показ 1–5 із 7 продуктів")
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "img-src 'self' https: data:")
	assert.Equal(t, theme.HintHeader, rr.Header().Get("Accept-CH"))
	assert.NotEmpty(t, c.cookies)

	rr = c.get("/")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/products", rr.Header().Get("Location"))
}

func TestRouterRejectsMutationsWithoutCSRF(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t)}
	c.get("/products/")

	rr := c.post("/products/sort/title", url.Values{})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouterFilterRoundTrip(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t)}
	token := c.csrfToken()

	rr := c.post("/products/filter", url.Values{"csrf_token": {token}, "column": {"category"}, "pattern": {"fragrances"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	body := c.get("/products/").Body.String()
	assert.Contains(t, body, "Показ 1–2 із 2 продуктів")
	assert.Contains(t, body, "Chanel Coco Noir")
	assert.NotContains(t, body, "Red Lipstick")

	rr = c.post("/products/sort/price", url.Values{"csrf_token": {token}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	rr = c.post("/products/sort/price", url.Values{"csrf_token": {token}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	body = c.get("/products/").Body.String()
	assert.Less(t, strings.Index(body, "Chanel Coco Noir"), strings.Index(body, "Calvin Klein CK One"))
}

func TestRouterThemeTogglePersists(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t)}
	token := c.csrfToken()

	rr := c.post("/theme/toggle", url.Values{"csrf_token": {token}, "next": {"/products"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, c.get("/products/").Body.String(), `data-theme="dark"`)

	fresh := &client{t: t, handler: c.handler}
	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	req.Header.Set(theme.HintHeader, "dark")
	assert.Contains(t, fresh.do(req).Body.String(), `data-theme="dark"`)
}

func TestRouterAPIAndOperationalEndpoints(t *testing.T) {
	c := &client{t: t, handler: newTestRouter(t)}

	rr := c.get("/api/products?sort=rating&dir=desc&size=2")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"Essence Mascara Lash Princess"`)
	assert.Contains(t, rr.Body.String(), `"page_count":4`)

	rr = c.get("/api/unknown")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusOK, c.get("/healthz").Code)
	assert.Equal(t, http.StatusOK, c.get("/jobs/health").Code)

	rr = c.get("/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "catalogview_catalog_fetch_total")

	rr = c.get("/static/css/app.css")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))
}
