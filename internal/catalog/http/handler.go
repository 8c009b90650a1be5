// Package cataloghttp serves the product table as server-rendered HTML, CSV,
// PDF and JSON.
package cataloghttp

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/catalogview/internal/catalog"
	"github.com/odyssey-erp/catalogview/internal/shared"
	"github.com/odyssey-erp/catalogview/internal/table"
	"github.com/odyssey-erp/catalogview/internal/theme"
	"github.com/odyssey-erp/catalogview/internal/view"
)

// SessionKey stores the table inputs between requests.
const SessionKey = "table"

const (
	basePath       = "/products"
	pageTitle      = "Каталог продуктів"
	requestTimeout = 20 * time.Second
)

// CatalogService is the record source used by the handler.
type CatalogService interface {
	Snapshot() catalog.Snapshot
	Reload(ctx context.Context) catalog.Snapshot
}

// PDFRenderer converts HTML into a PDF document.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Handler coordinates HTTP requests for the product table.
type Handler struct {
	logger    *slog.Logger
	catalog   CatalogService
	templates *view.Engine
	csrf      *shared.CSRFManager
	themes    *theme.Store
	pdf       PDFRenderer
	columns   []table.Column
	opts      table.Options
	validator *validator.Validate
	bufPool   sync.Pool
}

// NewHandler constructs the product table handler.
func NewHandler(logger *slog.Logger, service CatalogService, templates *view.Engine, csrf *shared.CSRFManager, themes *theme.Store, pdf PDFRenderer, opts table.Options) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if themes == nil {
		themes = theme.NewStore(theme.Light)
	}
	h := &Handler{
		logger:    logger.With(slog.String("component", "catalog.http")),
		catalog:   service,
		templates: templates,
		csrf:      csrf,
		themes:    themes,
		pdf:       pdf,
		columns:   table.DefaultColumns(),
		opts:      opts,
		validator: validator.New(),
	}
	h.bufPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

type filterForm struct {
	Column  string `validate:"required,oneof=title description price rating brand category"`
	Pattern string `validate:"max=256"`
}

type searchForm struct {
	Pattern string `validate:"max=256"`
}

type pageForm struct {
	Index int `validate:"gte=0"`
}

// sizeForm caps the page size; sizes below one are clamped by the table.
type sizeForm struct {
	Size int `validate:"lte=500"`
}

// loadState builds a table over the current snapshot and restores the
// visitor's inputs from the session.
func (h *Handler) loadState(r *http.Request) (*table.State, catalog.Snapshot) {
	snap := h.catalog.Snapshot()
	state := table.New(snap.Products, h.columns, h.opts)
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return state, snap
	}
	var params table.Params
	if err := sess.GetJSON(SessionKey, &params); err != nil {
		if !errors.Is(err, shared.ErrSessionValueMissing) {
			h.logger.Warn("decode table params", slog.Any("error", err))
		}
		return state, snap
	}
	state.Apply(params)
	return state, snap
}

func (h *Handler) saveState(r *http.Request, state *table.State) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return
	}
	if err := sess.SetJSON(SessionKey, state.Params()); err != nil {
		h.logger.Warn("store table params", slog.Any("error", err))
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	state, snap := h.loadState(r)
	sess := shared.SessionFromContext(r.Context())

	csrfToken := ""
	var flash *shared.FlashMessage
	if sess != nil {
		if h.csrf != nil {
			csrfToken, _ = h.csrf.EnsureToken(r.Context(), sess)
		}
		flash = sess.PopFlash()
	}

	viewData := view.TemplateData{
		Title:       pageTitle,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Theme:       h.themes.Current(r, sess).String(),
		Data:        buildPageView(state, snap, csrfToken),
	}
	if snap.Loading {
		w.Header().Set("Cache-Control", "no-store")
	}
	if err := h.templates.Render(w, "pages/products.html", viewData); err != nil {
		h.handleServerError(w, "render products", err)
	}
}

func (h *Handler) handleFilter(w http.ResponseWriter, r *http.Request) {
	form := filterForm{
		Column:  strings.TrimSpace(r.PostFormValue("column")),
		Pattern: r.PostFormValue("pattern"),
	}
	if err := h.validator.Struct(form); err != nil {
		h.rejectForm(w, r, "filter", err)
		return
	}
	h.mutate(w, r, func(state *table.State) {
		state.SetFilter(table.ColumnKey(form.Column), form.Pattern)
	})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	form := searchForm{Pattern: r.PostFormValue("pattern")}
	if err := h.validator.Struct(form); err != nil {
		h.rejectForm(w, r, "search", err)
		return
	}
	h.mutate(w, r, func(state *table.State) {
		state.SetGlobalFilter(form.Pattern)
	})
}

func (h *Handler) handleSort(w http.ResponseWriter, r *http.Request) {
	key := table.ColumnKey(chi.URLParam(r, "column"))
	h.mutate(w, r, func(state *table.State) {
		state.ToggleSort(key)
	})
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("index")))
	if err != nil {
		h.rejectForm(w, r, "page", err)
		return
	}
	form := pageForm{Index: index}
	if err := h.validator.Struct(form); err != nil {
		h.logger.Warn("page index clamped", slog.Int("index", index))
	}
	h.mutate(w, r, func(state *table.State) {
		state.SetPageIndex(form.Index)
	})
}

func (h *Handler) handleSize(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("size")))
	if err != nil {
		h.rejectForm(w, r, "size", err)
		return
	}
	form := sizeForm{Size: size}
	if err := h.validator.Struct(form); err != nil {
		h.rejectForm(w, r, "size", err)
		return
	}
	h.mutate(w, r, func(state *table.State) {
		state.SetPageSize(form.Size)
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(state *table.State) {
		state.Reset()
	})
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	snap := h.catalog.Reload(ctx)
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if snap.Err != nil {
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Не вдалося оновити каталог"})
		} else {
			sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Каталог оновлено"})
		}
	}
	http.Redirect(w, r, basePath, http.StatusSeeOther)
}

// mutate applies fn to the visitor's table, persists the result and redirects
// back to the table page.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(*table.State)) {
	state, _ := h.loadState(r)
	fn(state)
	h.saveState(r, state)
	http.Redirect(w, r, basePath, http.StatusSeeOther)
}

func (h *Handler) rejectForm(w http.ResponseWriter, r *http.Request, form string, err error) {
	h.logger.Warn("invalid form input", slog.String("form", form), slog.Any("error", err))
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Некоректні параметри таблиці"})
	}
	http.Redirect(w, r, basePath, http.StatusSeeOther)
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}
