package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	cataloghttp "github.com/odyssey-erp/catalogview/internal/catalog/http"
	"github.com/odyssey-erp/catalogview/internal/observability"
	"github.com/odyssey-erp/catalogview/internal/platform/httpx"
	"github.com/odyssey-erp/catalogview/internal/shared"
	"github.com/odyssey-erp/catalogview/internal/theme"
	"github.com/odyssey-erp/catalogview/jobs"
	"github.com/odyssey-erp/catalogview/report"
	"github.com/odyssey-erp/catalogview/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Themes         *theme.Store
	CatalogHandler *cataloghttp.Handler
	ReportHandler  *report.Handler
	JobHandler     *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with catalogview defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/products", http.StatusFound)
	})

	r.Route("/products", func(r chi.Router) {
		r.Use(theme.AdvertiseHint)
		params.CatalogHandler.MountRoutes(r)
	})
	r.Route("/api", func(r chi.Router) {
		params.CatalogHandler.MountAPI(r)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httpx.RespondError(w, httpx.ErrNotFound)
		})
	})

	themes := params.Themes
	if themes == nil {
		themes = theme.NewStore(params.Config.DefaultTheme())
	}
	r.Post("/theme/toggle", themes.ToggleHandler("/products"))

	if params.ReportHandler != nil {
		r.Route("/report", params.ReportHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler lets browsers cache embedded assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
