package httpx

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"time"

	folio "github.com/target/folio"
	"github.com/target/folio/config"
	domainauth "github.com/target/folio/internal/domain/auth"
	"github.com/target/folio/internal/service"
)

// TemplatePathFromRoot is where templates live on disk in dev mode.
const TemplatePathFromRoot = "frontend/templates"

// PageViews is the page view lifecycle the handlers drive.
type PageViews interface {
	Open(ctx context.Context) (service.PageView, error)
	Snapshot(id string) (domainauth.Snapshot, error)
	Close(id string) error
	Active() int
}

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Views PageViews
	Site  config.SiteConfig
	// Renderer overrides the template renderer (tests). When nil one is built from
	// the embedded templates, or from disk in dev mode.
	Renderer *TemplateRenderer
	IsDev    bool         // Development mode flag for hot reloading, etc.
	Logger   *slog.Logger // Logger for template and HTTP errors (optional)
	Now      func() time.Time
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Logger == nil {
		services.Logger = slog.Default()
	}
	if services.Now == nil {
		services.Now = time.Now
	}
	renderer := services.Renderer
	if renderer == nil {
		var err error
		renderer, err = NewTemplateRenderer(TemplateRendererConfig{
			TemplateFS: templateFS(services.IsDev, services.Logger),
			DevMode:    services.IsDev,
			Logger:     services.Logger,
		})
		if err != nil {
			return nil, err
		}
	}

	h := &PortfolioHandlers{
		Views:  services.Views,
		Site:   services.Site,
		T:      renderer,
		IsDev:  services.IsDev,
		Logger: services.Logger,
		Now:    services.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Page)
	mux.HandleFunc("GET /views/{id}/session", h.Session)
	mux.HandleFunc("POST /views/{id}/close", h.CloseView)
	mux.Handle("GET /healthz", healthHandler(services.Views))
	mux.Handle("HEAD /healthz", healthHandler(services.Views))
	mux.Handle("GET /static/", staticHandler(services.IsDev, services.Logger))
	mux.HandleFunc("/", h.NotFound)

	return mux, nil
}

func templateFS(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(folio.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		logger.Error("failed to create sub-filesystem for templates; falling back to disk", slog.Any("error", err))
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}

	staticSub, err := fs.Sub(folio.StaticFS, "frontend/static")
	if err != nil {
		logger.Error("failed to create sub-filesystem for static assets", slog.Any("error", err))
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders adds long-lived caching for content-hashed assets only.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}
