// Package theme resolves and persists the light/dark preference.
package theme

import (
	"net/http"
	"strings"

	"github.com/odyssey-erp/catalogview/internal/shared"
)

// Theme is the colour scheme preference.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

const (
	// SessionKey stores the explicit preference in the session.
	SessionKey = "theme"
	// HintHeader is the client hint carrying the browser's ambient preference.
	HintHeader = "Sec-CH-Prefers-Color-Scheme"
)

// Parse returns the theme named by s.
func Parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.Trim(strings.TrimSpace(s), `"`))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// String implements fmt.Stringer.
func (t Theme) String() string {
	return string(t)
}

// Store resolves the preference for a request.
type Store struct {
	fallback Theme
}

// NewStore returns a Store using fallback when neither the session nor the
// client hint carries a preference.
func NewStore(fallback Theme) *Store {
	if _, ok := Parse(string(fallback)); !ok {
		fallback = Light
	}
	return &Store{fallback: fallback}
}

// Current resolves the session value, then the client hint, then the fallback.
func (s *Store) Current(r *http.Request, sess *shared.Session) Theme {
	if sess != nil {
		if t, ok := Parse(sess.Get(SessionKey)); ok {
			return t
		}
	}
	if r != nil {
		if t, ok := Parse(r.Header.Get(HintHeader)); ok {
			return t
		}
	}
	return s.fallback
}

// Toggle flips the current theme and stores it in the session.
func (s *Store) Toggle(r *http.Request, sess *shared.Session) Theme {
	next := s.Current(r, sess).Toggle()
	if sess != nil {
		sess.Set(SessionKey, next.String())
	}
	return next
}

// AdvertiseHint asks browsers to send HintHeader on subsequent requests.
func AdvertiseHint(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Accept-CH", HintHeader)
		w.Header().Add("Vary", HintHeader)
		next.ServeHTTP(w, r)
	})
}

// ToggleHandler flips the theme and redirects to the referring page or
// fallback.
func (s *Store) ToggleHandler(fallback string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Toggle(r, shared.SessionFromContext(r.Context()))
		http.Redirect(w, r, redirectTarget(r, fallback), http.StatusSeeOther)
	}
}

func redirectTarget(r *http.Request, fallback string) string {
	if next := r.PostFormValue("next"); strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return fallback
}
