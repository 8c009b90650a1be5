package view

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/catalogview/internal/shared"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestLayoutHead(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = engine.Execute(&buf, "layouts/head", TemplateData{
		Title:       "Каталог",
		CSRFToken:   "tok",
		Flash:       &shared.FlashMessage{Kind: "success", Message: "Готово"},
		CurrentPath: "/products",
		Theme:       "dark",
		Data:        map[string]any{"Loading": true},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `data-theme="dark"`)
	assert.Contains(t, out, `http-equiv="refresh"`)
	assert.Contains(t, out, `value="tok"`)
	assert.Contains(t, out, `class="flash flash-success"`)
	assert.Contains(t, out, "Світла тема")
}

func TestRenderSetsContentType(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, engine.Render(rec, "layouts/foot", TemplateData{}))
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "</html>")
}

func TestRenderNilEngine(t *testing.T) {
	var engine *Engine
	assert.Error(t, engine.Render(httptest.NewRecorder(), "layouts/foot", TemplateData{}))
}
