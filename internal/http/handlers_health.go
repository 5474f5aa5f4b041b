package httpx

import (
	"net/http"
	"strconv"
)

// ActiveCounter reports how many page views are live.
type ActiveCounter interface {
	Active() int
}

// healthHandler returns 200 for readiness/liveness checks, with the number of
// live page views when a counter is available.
func healthHandler(views ActiveCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		body := `{"status":"ok"}`
		if views != nil {
			body = `{"status":"ok","active_views":` + strconv.Itoa(views.Active()) + `}`
		}
		// Nothing more to do if the client connection is gone.
		_, _ = w.Write([]byte(body))
	}
}
