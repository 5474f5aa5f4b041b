package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
)

// LogRecorder captures JSON log records written through a slog.Logger.
type LogRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLogRecorder returns a recorder and a debug-level logger writing to it.
func NewLogRecorder() (*LogRecorder, *slog.Logger) {
	r := &LogRecorder{}
	logger := slog.New(slog.NewJSONHandler(r, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return r, logger
}

func (r *LogRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// Records decodes every captured record.
func (r *LogRecorder) Records() []map[string]any {
	r.mu.Lock()
	data := append([]byte(nil), r.buf.Bytes()...)
	r.mu.Unlock()

	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err == nil {
			out = append(out, rec)
		}
	}
	return out
}

// Count returns how many records carry msg.
func (r *LogRecorder) Count(msg string) int {
	n := 0
	for _, rec := range r.Records() {
		if rec[slog.MessageKey] == msg {
			n++
		}
	}
	return n
}

// Find returns the first record carrying msg, or nil.
func (r *LogRecorder) Find(msg string) map[string]any {
	for _, rec := range r.Records() {
		if rec[slog.MessageKey] == msg {
			return rec
		}
	}
	return nil
}
