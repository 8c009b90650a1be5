// Package view parses the embedded HTML templates once and renders pages.
package view

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/odyssey-erp/catalogview/internal/shared"
	"github.com/odyssey-erp/catalogview/web"
)

var errNoEngine = errors.New("view: template engine not initialised")

var templateGlobs = []string{
	"templates/layouts/*.html",
	"templates/partials/*.html",
	"templates/pages/*.html",
}

// Engine holds the parsed template set.
type Engine struct {
	set *template.Template
}

// TemplateData is passed to every page.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Theme       string
	Data        any
}

var funcs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02.01.2006 15:04")
	},
	"inc": func(i int) int { return i + 1 },
	"dec": func(i int) int { return i - 1 },
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	set, err := template.New("catalogview").Funcs(funcs).ParseFS(web.Templates, templateGlobs...)
	if err != nil {
		return nil, err
	}
	return &Engine{set: set}, nil
}

// Render executes name into a buffer and writes it as HTML, so a template
// error never leaves a half-written page.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	var buf bytes.Buffer
	if err := e.Execute(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// Execute renders name into w, e.g. the buffer handed to the PDF converter.
func (e *Engine) Execute(w io.Writer, name string, data TemplateData) error {
	if e == nil || e.set == nil {
		return errNoEngine
	}
	return e.set.ExecuteTemplate(w, name, data)
}
