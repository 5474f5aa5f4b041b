package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const contentEncodingGzip = "gzip"

func TestCompression(t *testing.T) {
	testContent := strings.Repeat("Hello, World! ", 1000)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testContent))
	})

	tests := []struct {
		name           string
		acceptEncoding string
		expectGzip     bool
		level          int
	}{
		{name: "client accepts gzip", acceptEncoding: "gzip, deflate", expectGzip: true, level: 6},
		{name: "client does not accept gzip", acceptEncoding: "deflate", expectGzip: false, level: 6},
		{name: "no accept-encoding header", acceptEncoding: "", expectGzip: false, level: 6},
		{name: "gzip explicitly refused", acceptEncoding: "gzip;q=0, br", expectGzip: false, level: 6},
		{name: "compression level 1 (fastest)", acceptEncoding: "gzip", expectGzip: true, level: 1},
		{name: "compression level 9 (best)", acceptEncoding: "gzip", expectGzip: true, level: 9},
		{name: "out of range level falls back", acceptEncoding: "gzip", expectGzip: true, level: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := runCompressionTest(t, handler, tt.level, http.MethodGet, tt.acceptEncoding)
			defer resp.Body.Close()

			if tt.expectGzip {
				verifyGzipResponse(t, resp, testContent)
			} else {
				verifyUncompressedResponse(t, resp, testContent)
			}
		})
	}
}

func TestCompression_SkipsIneligibleResponses(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		handler http.HandlerFunc
	}{
		{
			name:   "image content",
			method: http.MethodGet,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write([]byte("png-bytes"))
			},
		},
		{
			name:   "no content",
			method: http.MethodPost,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
		},
		{
			name:   "head request",
			method: http.MethodHead,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			name:   "already encoded",
			method: http.MethodGet,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.Header().Set("Content-Encoding", "br")
				_, _ = w.Write([]byte("brotli"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := runCompressionTest(t, tt.handler, 6, tt.method, "gzip")
			defer resp.Body.Close()

			if got := resp.Header.Get("Content-Encoding"); got == contentEncodingGzip {
				t.Fatalf("expected response to stay uncompressed, got Content-Encoding %q", got)
			}
		})
	}
}

func TestCompression_DetectsContentType(t *testing.T) {
	body := strings.Repeat("<html><body>hello</body></html>", 50)
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	resp := runCompressionTest(t, handler, 6, http.MethodGet, "gzip")
	defer resp.Body.Close()

	verifyGzipResponse(t, resp, body)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected sniffed text/html content type, got %q", ct)
	}
}

func TestCompression_WriterReuse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"path":"` + r.URL.Path + `"}`))
	})

	for range 5 {
		resp := runCompressionTest(t, handler, 3, http.MethodGet, "gzip")
		verifyGzipResponse(t, resp, `{"path":"/test"}`)
		resp.Body.Close()
	}
}

func runCompressionTest(t *testing.T, handler http.Handler, level int, method, acceptEncoding string) *http.Response {
	t.Helper()
	mw := Compression(CompressionConfig{Level: level})

	req := httptest.NewRequest(method, "/test", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, req)
	return rec.Result()
}

func verifyGzipResponse(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	if got := resp.Header.Get("Content-Encoding"); got != contentEncodingGzip {
		t.Fatalf("expected Content-Encoding gzip, got %q", got)
	}
	if vary := resp.Header.Get("Vary"); !strings.Contains(vary, "Accept-Encoding") {
		t.Fatalf("expected Vary to include Accept-Encoding, got %q", vary)
	}

	gr, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.Fatalf("failed to create gzip reader: %v", err)
	}
	defer gr.Close()

	body, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("failed to read gzip body: %v", err)
	}
	if string(body) != want {
		t.Fatalf("decompressed body mismatch: got %d bytes, want %d", len(body), len(want))
	}
}

func verifyUncompressedResponse(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	if got := resp.Header.Get("Content-Encoding"); got != "" {
		t.Fatalf("expected no Content-Encoding, got %q", got)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if string(body) != want {
		t.Fatalf("body mismatch: got %d bytes, want %d", len(body), len(want))
	}
}
