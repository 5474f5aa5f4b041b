package bootstrap

import (
	"log/slog"

	"github.com/target/folio/config"
	"github.com/target/folio/internal/observability/statsd"
)

// BuildMetrics returns the StatsD client when metrics are enabled, or nil.
// A client that cannot be created is logged and treated as disabled.
func BuildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled:    true,
		Address:    cfg.StatsdAddress,
		Prefix:     cfg.Prefix,
		Logger:     logger,
		GlobalTags: cfg.Tags,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	logger.Info("statsd metrics enabled", "address", cfg.StatsdAddress, "prefix", cfg.Prefix, "tags", len(cfg.Tags))
	return client
}
