package theme

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/catalogview/internal/shared"
)

func TestParse(t *testing.T) {
	for input, want := range map[string]Theme{"light": Light, "Dark": Dark, ` "dark" `: Dark} {
		got, ok := Parse(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got)
	}
	_, ok := Parse("sepia")
	assert.False(t, ok)
	assert.Equal(t, Dark, Light.Toggle())
	assert.Equal(t, Light, Dark.Toggle())
}

func TestCurrentResolutionOrder(t *testing.T) {
	store := NewStore(Light)
	req := httptest.NewRequest(http.MethodGet, "/products", nil)

	assert.Equal(t, Light, store.Current(req, nil))

	req.Header.Set(HintHeader, `"dark"`)
	assert.Equal(t, Dark, store.Current(req, &shared.Session{}))

	sess := &shared.Session{}
	sess.Set(SessionKey, "light")
	assert.Equal(t, Light, store.Current(req, sess))

	assert.Equal(t, Light, NewStore("sepia").Current(nil, nil))
}

func TestTogglePersistsAcrossReloads(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()
	sessions := shared.NewSessionManager(client, "catalogview_session", "secret", time.Hour, false)
	store := NewStore(Light)
	ctx := context.Background()

	first := httptest.NewRequest(http.MethodPost, "/theme/toggle", nil)
	sess, err := sessions.Load(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, Dark, store.Toggle(first, sess))

	rr := httptest.NewRecorder()
	require.NoError(t, sessions.Commit(ctx, rr, first, sess))
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)

	reload := httptest.NewRequest(http.MethodGet, "/products", nil)
	reload.AddCookie(cookies[0])
	restored, err := sessions.Load(ctx, reload)
	require.NoError(t, err)
	assert.Equal(t, Dark, store.Current(reload, restored))
}

func TestToggleHandlerRedirects(t *testing.T) {
	store := NewStore(Dark)
	sess := &shared.Session{}

	form := url.Values{"next": {"/products?x=1"}}
	req := httptest.NewRequest(http.MethodPost, "/theme/toggle", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	rr := httptest.NewRecorder()

	store.ToggleHandler("/products").ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/products?x=1", rr.Header().Get("Location"))
	assert.Equal(t, "light", sess.Get(SessionKey))

	evil := url.Values{"next": {"//evil.example.com"}}
	req = httptest.NewRequest(http.MethodPost, "/theme/toggle", strings.NewReader(evil.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	store.ToggleHandler("/products").ServeHTTP(rr, req)
	assert.Equal(t, "/products", rr.Header().Get("Location"))
}

func TestAdvertiseHint(t *testing.T) {
	rr := httptest.NewRecorder()
	AdvertiseHint(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, HintHeader, rr.Header().Get("Accept-CH"))
}
