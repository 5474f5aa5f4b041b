package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fixedCounter int

func (c fixedCounter) Active() int { return int(c) }

func TestHealthHandlerGET(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(fixedCounter(3))(rec, req)

	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %q", ct)
	}
	if body := rec.Body.String(); body != `{"status":"ok","active_views":3}` {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestHealthHandlerWithoutCounter(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler(nil)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if body := rec.Body.String(); body != `{"status":"ok"}` {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestHealthHandlerHEAD(t *testing.T) {
	req := httptest.NewRequest(http.MethodHead, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(fixedCounter(1))(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if bodyLen := rec.Body.Len(); bodyLen != 0 {
		t.Fatalf("expected empty body for HEAD request, got %d bytes", bodyLen)
	}
}
