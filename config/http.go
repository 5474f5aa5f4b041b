package config

import "time"

const (
	defaultHTTPAddr        = ":8080"
	defaultShutdownTimeout = 10 * time.Second
)

// HTTPConfig configures the page server.
type HTTPConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Gzip for HTML fragments, JSON snapshots and static text assets.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`
	CompressionLevel   int  `env:"HTTP_COMPRESSION_LEVEL"   envDefault:"6"`

	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`
	// ShutdownTimeout bounds graceful shutdown; open views are closed afterwards.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = defaultHTTPAddr
	}
	h.CompressionLevel = min(max(h.CompressionLevel, 1), 9)
	if h.ReadHeaderTimeout <= 0 {
		h.ReadHeaderTimeout = 10 * time.Second
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = defaultShutdownTimeout
	}
}
