package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/target/folio/config"
	"github.com/target/folio/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger(false)
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
	logger.InfoContext(ctx, "shutdown complete")
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.IsDev {
		logger = bootstrap.InitLogger(true)
	}

	logStartupInfo(ctx, logger, &cfg)

	return bootstrap.Run(ctx, bootstrap.RunOptions{Config: cfg, Logger: logger})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting folio",
		"addr", cfg.HTTP.Addr,
		"identity_mode", cfg.Identity.Mode,
		"app_id", cfg.Platform.AppID,
		"initial_token", cfg.Platform.InitialAuthToken != "",
		"redis", cfg.UsesRedis(),
		"dev", cfg.IsDev,
	)
}
