package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/folio/config"
	domainauth "github.com/target/folio/internal/domain/auth"
	"github.com/target/folio/internal/domain/portfolio"
	"github.com/target/folio/internal/http/ui/viewmodel"
	"github.com/target/folio/internal/service"
)

// PortfolioHandlers serves the portfolio page and its per-view session endpoints.
type PortfolioHandlers struct {
	Views  PageViews
	Site   config.SiteConfig
	T      *TemplateRenderer
	IsDev  bool
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *PortfolioHandlers) layout(title string) viewmodel.Layout {
	return viewmodel.Layout{Title: title, Year: h.Now().Year(), IsDev: h.IsDev}
}

// Page renders the portfolio. Every load opens a page view whose auth bootstrap
// runs in the background; the badge fills in once it is ready.
func (h *PortfolioHandlers) Page(w http.ResponseWriter, r *http.Request) {
	page := portfolio.DefaultPage(h.Site.OwnerName, h.Site.Tagline)
	data := viewmodel.PortfolioPage{
		Layout: h.layout(page.OwnerName + " | Portfolio"),
		Page:   page,
	}

	if h.Views != nil {
		view, err := h.Views.Open(r.Context())
		if err != nil {
			h.Logger.WarnContext(r.Context(), "page view unavailable; rendering without session badge",
				slog.Any("error", err))
		} else {
			data.ViewID = view.ID
			data.Badge = viewmodel.NewBadge(view.ID, view.Snapshot)
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	if err := h.T.RenderPage(w, http.StatusOK, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// NotFound renders the error page for unknown paths.
func (h *PortfolioHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if WantsFragment(r) || !acceptsHTML(r) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("not found")})
		return
	}
	data := viewmodel.ErrorPage{
		Layout:  h.layout("Not Found"),
		Status:  http.StatusNotFound,
		Message: "The page you are looking for does not exist.",
	}
	if err := h.T.RenderError(w, http.StatusNotFound, data); err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

func (h *PortfolioHandlers) snapshot(r *http.Request) (string, domainauth.Snapshot, error) {
	id := r.PathValue("id")
	if h.Views == nil {
		return id, domainauth.Snapshot{}, service.ErrViewNotFound
	}
	snap, err := h.Views.Snapshot(id)
	return id, snap, err
}
