package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// WriteJSON encodes v before touching the response so an encoding failure can
// still become a clean 500. JSON responses are never cached.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int    // HTTP status
	ErrCode string // machine-readable code, e.g. view_not_found
	Err     error  // message source; nil uses the status text
}

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes an ErrorResponse with p.Code.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	resp := ErrorResponse{Error: p.ErrCode, Message: http.StatusText(p.Code)}
	if p.Err != nil {
		resp.Message = p.Err.Error()
	}
	WriteJSON(w, p.Code, resp)
}
