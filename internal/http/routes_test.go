package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/folio/config"
	domainauth "github.com/target/folio/internal/domain/auth"
	"github.com/target/folio/internal/service"
	"github.com/target/folio/internal/testutil"
)

type fakeViews struct {
	mu      sync.Mutex
	openErr error
	open    service.PageView
	snaps   map[string]domainauth.Snapshot
	closed  []string
}

func (f *fakeViews) Open(context.Context) (service.PageView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return service.PageView{}, f.openErr
	}
	if f.snaps == nil {
		f.snaps = map[string]domainauth.Snapshot{}
	}
	f.snaps[f.open.ID] = f.open.Snapshot
	return f.open, nil
}

func (f *fakeViews) Snapshot(id string) (domainauth.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snaps[id]
	if !ok {
		return domainauth.Snapshot{}, service.ErrViewNotFound
	}
	return s, nil
}

func (f *fakeViews) Close(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.snaps[id]; !ok {
		return service.ErrViewNotFound
	}
	delete(f.snaps, id)
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeViews) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.snaps)
}

func (f *fakeViews) set(id string, s domainauth.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snaps == nil {
		f.snaps = map[string]domainauth.Snapshot{}
	}
	f.snaps[id] = s
}

func newTestRouter(t *testing.T, views PageViews) http.Handler {
	t.Helper()
	_, logger := testutil.NewLogRecorder()
	h, err := NewRouter(RouterServices{
		Views:  views,
		Site:   config.SiteConfig{OwnerName: "Ada Lovelace", Tagline: "Analytical Engines"},
		Logger: logger,
		Now:    func() time.Time { return time.Date(2031, 5, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return h
}

func serve(h http.Handler, req *http.Request) (*http.Response, string) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	resp := rec.Result()
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, string(body)
}

func TestPage_RendersPortfolioWithPollingBadge(t *testing.T) {
	views := &fakeViews{open: service.PageView{
		ID:       "view-1",
		Snapshot: domainauth.Snapshot{Phase: domainauth.PhaseInitializing},
	}}
	h := newTestRouter(t, views)

	resp, body := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "Analytical Engines")
	assert.Contains(t, body, "Cloud Migration Strategy")
	assert.Contains(t, body, "Skills &amp; Expertise")
	assert.Contains(t, body, "2031")
	assert.Contains(t, body, `data-view-id="view-1"`)
	assert.Contains(t, body, `hx-get="/views/view-1/session"`)
	assert.NotContains(t, body, "User ID:")
}

func TestPage_ReadyViewShowsUserID(t *testing.T) {
	views := &fakeViews{open: service.PageView{
		ID:       "view-2",
		Snapshot: domainauth.Snapshot{Phase: domainauth.PhaseReadyAuthenticated, Ready: true, UserID: "abc123"},
	}}
	h := newTestRouter(t, views)

	_, body := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, body, "User ID:")
	assert.Contains(t, body, "abc123")
	assert.NotContains(t, body, "hx-get=")
}

func TestPage_OpenFailureStillRenders(t *testing.T) {
	h := newTestRouter(t, &fakeViews{openErr: service.ErrTooManyViews})

	resp, body := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Ada Lovelace")
	assert.NotContains(t, body, "data-view-id")
	assert.NotContains(t, body, "hx-get=")
}

func TestSession_HTMXReturnsBadgeFragment(t *testing.T) {
	views := &fakeViews{}
	views.set("v1", domainauth.Snapshot{Phase: domainauth.PhaseInitializing})
	h := newTestRouter(t, views)

	req := httptest.NewRequest(http.MethodGet, "/views/v1/session", nil)
	req.Header.Set("Hx-Request", "true")
	resp, body := serve(h, req)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(body), `<div id="session-badge"`))
	assert.Contains(t, body, `hx-trigger="load delay:1s"`)
	assert.NotContains(t, body, "<html")
	assert.Contains(t, resp.Header.Values("Vary"), "Hx-Request")

	views.set("v1", domainauth.Snapshot{Phase: domainauth.PhaseReadyAuthenticated, Ready: true, UserID: "xyz789"})
	_, body = serve(h, req)
	assert.Contains(t, body, "xyz789")
	assert.NotContains(t, body, "hx-get=")

	views.set("v1", domainauth.Snapshot{Phase: domainauth.PhaseReadyUnauthenticated, Ready: true})
	_, body = serve(h, req)
	assert.NotContains(t, body, "User ID:")
	assert.NotContains(t, body, "hx-get=")
}

func TestSession_JSON(t *testing.T) {
	views := &fakeViews{}
	views.set("v1", domainauth.Snapshot{Phase: domainauth.PhaseReadyAuthenticated, Ready: true, UserID: "abc123"})
	views.set("v2", domainauth.Snapshot{Phase: domainauth.PhaseInitializing})
	h := newTestRouter(t, views)

	resp, body := serve(h, httptest.NewRequest(http.MethodGet, "/views/v1/session", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"view_id":"v1","phase":"ready-authenticated","ready":true,"user_id":"abc123"}`, body)

	_, body = serve(h, httptest.NewRequest(http.MethodGet, "/views/v2/session", nil))
	assert.JSONEq(t, `{"view_id":"v2","phase":"initializing","ready":false,"user_id":null}`, body)

	other := httptest.NewRequest(http.MethodGet, "/views/v1/session", nil)
	other.Header.Set("Hx-Request", "true")
	other.Header.Set("Hx-Target", "contact")
	_, body = serve(h, other)
	assert.JSONEq(t, `{"view_id":"v1","phase":"ready-authenticated","ready":true,"user_id":"abc123"}`, body)
}

func TestSession_UnknownView(t *testing.T) {
	h := newTestRouter(t, &fakeViews{})

	resp, body := serve(h, httptest.NewRequest(http.MethodGet, "/views/missing/session", nil))

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "view_not_found", payload["error"])
	assert.Equal(t, service.ErrViewNotFound.Error(), payload["message"])
}

func TestCloseView(t *testing.T) {
	views := &fakeViews{}
	views.set("v1", domainauth.Snapshot{})
	h := newTestRouter(t, views)

	resp, _ := serve(h, httptest.NewRequest(http.MethodPost, "/views/v1/close", nil))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"v1"}, views.closed)

	resp, _ = serve(h, httptest.NewRequest(http.MethodPost, "/views/v1/close", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestViewErrors_ShuttingDownAndUnexpected(t *testing.T) {
	h := &PortfolioHandlers{Views: &erroringViews{err: service.ErrServiceClosed}}
	_, h.Logger = testutil.NewLogRecorder()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/views/v1/close", nil)
	req.SetPathValue("id", "v1")
	h.CloseView(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	logs, logger := testutil.NewLogRecorder()
	h = &PortfolioHandlers{Views: &erroringViews{err: errors.New("boom")}, Logger: logger}
	rec = httptest.NewRecorder()
	h.CloseView(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
	assert.Equal(t, 1, logs.Count("page view request failed"))
}

type erroringViews struct{ err error }

func (e *erroringViews) Open(context.Context) (service.PageView, error) {
	return service.PageView{}, e.err
}
func (e *erroringViews) Snapshot(string) (domainauth.Snapshot, error) {
	return domainauth.Snapshot{}, e.err
}
func (e *erroringViews) Close(string) error { return e.err }
func (e *erroringViews) Active() int        { return 0 }

func TestNotFound(t *testing.T) {
	h := newTestRouter(t, &fakeViews{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set("Accept", "text/html")
	resp, body := serve(h, req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "404")

	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set("Accept", "application/json")
	resp, body = serve(h, req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"not_found","message":"not found"}`, body)
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(t, &fakeViews{})

	resp, body := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","active_views":0}`, body)
}

func TestStatic_ServesEmbeddedScript(t *testing.T) {
	h := newTestRouter(t, &fakeViews{})

	resp, body := serve(h, httptest.NewRequest(http.MethodGet, "/static/js/view.js", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "sendBeacon")
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
}

func TestStaticWithCacheHeaders_HashedAssets(t *testing.T) {
	h := staticWithCacheHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/js/view.0123abcd.js", nil))
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
}
