package cataloghttp

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/catalogview/internal/catalog"
	"github.com/odyssey-erp/catalogview/internal/table"
	"github.com/odyssey-erp/catalogview/internal/view"
)

// WriteCSV serialises products with the raw column values. Image columns are
// written as their URL.
func WriteCSV(w io.Writer, columns []table.Column, products []catalog.Product) error {
	writer := csv.NewWriter(w)
	header := make([]string, 0, len(columns))
	for _, col := range columns {
		header = append(header, col.Label)
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, p := range products {
		for i, col := range columns {
			record[i], _ = col.Text(p)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	state, _ := h.loadState(r)

	buf := h.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.bufPool.Put(buf)
	}()

	if err := WriteCSV(buf, state.Columns(), state.Filtered()); err != nil {
		h.handleServerError(w, "write products csv", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		h.handleServerError(w, "pdf exporter", errors.New("pdf exporter not configured"))
		return
	}
	state, snap := h.loadState(r)

	buf := h.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.bufPool.Put(buf)
	}()

	viewData := view.TemplateData{
		Title: pageTitle,
		Data:  buildPageView(state, snap, ""),
	}
	if err := h.templates.Execute(buf, "pages/products_print.html", viewData); err != nil {
		h.handleServerError(w, "render print html", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	pdfBytes, err := h.pdf.RenderHTML(ctx, buf.String())
	if err != nil {
		h.logger.Error("render pdf", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	filename := fmt.Sprintf("products-page-%d.pdf", state.PageIndex()+1)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(pdfBytes); err != nil {
		h.logError("stream pdf", err)
	}
}
