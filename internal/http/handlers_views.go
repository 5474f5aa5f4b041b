package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/target/folio/internal/http/ui/viewmodel"
	"github.com/target/folio/internal/service"
)

// SessionResponse is the JSON shape of a page view's auth state.
type SessionResponse struct {
	ViewID string  `json:"view_id"`
	Phase  string  `json:"phase"`
	Ready  bool    `json:"ready"`
	UserID *string `json:"user_id"`
}

// Session reports a page view's auth state. htmx requests get the badge fragment,
// everything else gets JSON.
func (h *PortfolioHandlers) Session(w http.ResponseWriter, r *http.Request) {
	id, snap, err := h.snapshot(r)
	if err != nil {
		h.writeViewError(w, r, err)
		return
	}

	varyOnHTMX(w)
	if WantsFragment(r) {
		w.Header().Set("Cache-Control", "no-store")
		if err := h.T.RenderPartial(w, sessionBadgeID, viewmodel.NewBadge(id, snap)); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	resp := SessionResponse{ViewID: id, Phase: string(snap.Phase), Ready: snap.Ready}
	if snap.UserID != "" {
		uid := snap.UserID
		resp.UserID = &uid
	}
	WriteJSON(w, http.StatusOK, resp)
}

// CloseView tears down a page view. Browsers call it with sendBeacon on pagehide.
func (h *PortfolioHandlers) CloseView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if h.Views == nil {
		h.writeViewError(w, r, service.ErrViewNotFound)
		return
	}
	if err := h.Views.Close(id); err != nil {
		h.writeViewError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PortfolioHandlers) writeViewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrViewNotFound):
		// htmx does not swap 4xx responses; the stale badge simply stops polling.
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "view_not_found", Err: err})
	case errors.Is(err, service.ErrServiceClosed):
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "shutting_down", Err: err})
	default:
		h.Logger.ErrorContext(r.Context(), "page view request failed",
			slog.String("view_id", r.PathValue("id")),
			slog.Any("error", err))
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: errors.New("internal error")})
	}
}

func acceptsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}
