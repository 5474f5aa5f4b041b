package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/folio/internal/testutil"
)

func TestLogging_RecordsStatusAndBytes(t *testing.T) {
	logs, logger := testutil.NewLogRecorder()
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	rec2 := logs.Find("http")
	require.NotNil(t, rec2)
	assert.Equal(t, "INFO", rec2["level"])
	assert.Equal(t, "GET", rec2["method"])
	assert.Equal(t, "/", rec2["path"])
	assert.InDelta(t, float64(http.StatusTeapot), rec2["status"], 0)
	assert.InDelta(t, float64(len("short and stout")), rec2["bytes"], 0)
}

func TestLogging_BadgePollsAreDebug(t *testing.T) {
	logs, logger := testutil.NewLogRecorder()
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/views/abc/session", nil))

	rec := logs.Find("http")
	require.NotNil(t, rec)
	assert.Equal(t, "DEBUG", rec["level"])
	assert.InDelta(t, float64(http.StatusOK), rec["status"], 0)
}

func TestRecover_WritesJSONError(t *testing.T) {
	logs, logger := testutil.NewLogRecorder()
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal_error","message":"internal server error"}`, rec.Body.String())
	entry := logs.Find("panic")
	require.NotNil(t, entry)
	assert.Equal(t, "kaboom", entry["error"])
}

func TestRecover_RepanicsAbortHandler(t *testing.T) {
	_, logger := testutil.NewLogRecorder()
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
