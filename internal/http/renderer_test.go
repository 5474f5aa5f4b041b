package httpx

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplates() fstest.MapFS {
	return fstest.MapFS{
		"layout.tmpl":         {Data: []byte(`{{define "layout"}}<main>{{template "content" .}}</main>{{end}}`)},
		"error.tmpl":          {Data: []byte(`{{define "error-layout"}}error {{.}}{{end}}`)},
		"pages/home.tmpl":     {Data: []byte(`{{define "content"}}hello {{.}}{{end}}`)},
		"partials/badge.tmpl": {Data: []byte(`{{define "badge"}}<b>{{.}}</b>{{end}}`)},
	}
}

func TestNewTemplateRenderer_RequiresFS(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.Error(t, err)
}

func TestNewTemplateRenderer_ParseError(t *testing.T) {
	fsys := testTemplates()
	fsys["pages/broken.tmpl"] = &fstest.MapFile{Data: []byte(`{{define "broken"}}{{.Missing`)}
	_, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys})
	require.Error(t, err)
}

func TestTemplateRenderer_Render(t *testing.T) {
	r, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: testTemplates()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.RenderPage(rec, http.StatusOK, "<world>"))
	assert.Equal(t, "<main>hello &lt;world&gt;</main>", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	require.NoError(t, r.RenderPartial(rec, "badge", "id"))
	assert.Equal(t, "<b>id</b>", rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, r.RenderError(rec, http.StatusNotFound, 404))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error 404", rec.Body.String())
}

func TestTemplateRenderer_UnknownTemplateWritesNothing(t *testing.T) {
	r, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: testTemplates()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.Error(t, r.RenderPartial(rec, "missing", nil))
	assert.Empty(t, rec.Body.String())
}

func TestTemplateRenderer_DevModeReparses(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	write("layout.tmpl", `{{define "layout"}}v1{{end}}`)
	write("pages/p.tmpl", `{{define "content"}}{{end}}`)
	write("partials/x.tmpl", `{{define "x"}}{{end}}`)

	r, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(dir), DevMode: true})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.RenderPage(rec, http.StatusOK, nil))
	assert.Equal(t, "v1", rec.Body.String())

	write("layout.tmpl", `{{define "layout"}}v2{{end}}`)
	rec = httptest.NewRecorder()
	require.NoError(t, r.RenderPage(rec, http.StatusOK, nil))
	assert.Equal(t, "v2", rec.Body.String())
}
