package cataloghttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/odyssey-erp/catalogview/internal/shared"
)

// MountRoutes registers the product table endpoints onto a router mounted at
// /products.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/", h.handleList)
	r.Post("/filter", h.handleFilter)
	r.Post("/search", h.handleSearch)
	r.Post("/sort/{column}", h.handleSort)
	r.Post("/page", h.handlePage)
	r.Post("/size", h.handleSize)
	r.Post("/reset", h.handleReset)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Post("/reload", h.handleReload)
		gr.Get("/export.csv", h.handleCSV)
		gr.Get("/export.pdf", h.handlePDF)
	})
}

// MountAPI registers the stateless JSON view.
func (h *Handler) MountAPI(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/products", h.handleAPI)
}

func rateLimitKey(r *http.Request) (string, error) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && sess.ID != "" {
		return "session:" + sess.ID, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
