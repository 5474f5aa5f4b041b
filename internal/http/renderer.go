package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
)

var templatePatterns = []string{
	"*.tmpl",
	"pages/*.tmpl",
	"partials/*.tmpl",
}

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	fsys    fs.FS
	devMode bool // reparse templates on every render
	logger  *slog.Logger

	mu sync.RWMutex
	t  *template.Template
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	DevMode    bool         // Reparse templates on each render
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}

	r := &TemplateRenderer{fsys: cfg.TemplateFS, devMode: cfg.DevMode, logger: cfg.Logger}
	t, err := r.parse()
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed",
				slog.Any("error", err),
				slog.String("phase", "initialization"),
			)
		}
		return nil, err
	}
	r.t = t
	return r, nil
}

func (r *TemplateRenderer) parse() (*template.Template, error) {
	return template.New("root").ParseFS(r.fsys, templatePatterns...)
}

func (r *TemplateRenderer) templates() (*template.Template, error) {
	if r.devMode {
		t, err := r.parse()
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.t = t
		r.mu.Unlock()
		return t, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.t, nil
}

// RenderPage renders the full page (layout + page content).
func (r *TemplateRenderer) RenderPage(w http.ResponseWriter, code int, data any) error {
	return r.renderTemplate(w, code, "layout", data)
}

// RenderPartial renders a named fragment, such as the session badge.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, name string, data any) error {
	return r.renderTemplate(w, http.StatusOK, name, data)
}

// RenderError renders an error page using the error template.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, code int, data any) error {
	return r.renderTemplate(w, code, "error-layout", data)
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, code int, name string, data any) error {
	t, err := r.templates()
	if err != nil {
		r.logTemplateError(name, err)
		return err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logTemplateError(name, err)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		if r.logger != nil {
			r.logger.Error("failed to write rendered template",
				slog.String("template", name),
				slog.Any("error", err),
			)
		}
		return err
	}
	return nil
}

func (r *TemplateRenderer) logTemplateError(name string, err error) {
	if r.logger == nil || err == nil {
		return
	}
	r.logger.Error("template execution failed",
		slog.String("template", name),
		slog.Any("error", err),
	)
}
