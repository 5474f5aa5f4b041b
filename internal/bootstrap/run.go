package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/redis/go-redis/v9"
	"github.com/target/folio/config"
	domainauth "github.com/target/folio/internal/domain/auth"
	httpx "github.com/target/folio/internal/http"
	"github.com/target/folio/internal/observability/statsd"
	"github.com/target/folio/internal/service"
	"golang.org/x/sync/errgroup"
)

// RunOptions contains everything Run needs.
type RunOptions struct {
	Config config.AppConfig
	Logger *slog.Logger
	// Listener overrides Config.HTTP.Addr (tests bind 127.0.0.1:0).
	Listener net.Listener
	// Ready, when set, is called once the server is accepting connections.
	Ready func(addr net.Addr)
}

// Run wires the service and serves until ctx is cancelled, then tears every
// page view down.
func Run(ctx context.Context, opts RunOptions) (err error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var redisClient redis.UniversalClient
	if cfg.UsesRedis() {
		redisClient, err = ConnectRedis(ctx, RedisConnectConfig{RedisConfig: cfg.Redis, Logger: logger})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("close redis client: %w", cerr))
			}
		}()
	}

	var sink statsd.Sink
	if client := BuildMetrics(logger, cfg.Observability.Metrics); client != nil {
		sink = client
		defer func() {
			if cerr := client.Close(); cerr != nil {
				logger.Warn("failed to close statsd client", "error", cerr)
			}
		}()
	}

	platform, err := BuildIdentityPlatform(ctx, IdentityDeps{
		Config:      cfg.Identity,
		RedisClient: redisClient,
		KeyPrefix:   cfg.Redis.KeyPrefix,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("build identity platform: %w", err)
	}

	views, err := service.NewPageViewService(service.PageViewServiceOptions{
		Platform: platform,
		Auth: domainauth.BootstrapConfig{
			PlatformConfig:   cfg.Platform.RawConfig,
			AppID:            cfg.Platform.AppID,
			InitialAuthToken: cfg.Platform.InitialAuthToken,
		},
		Config:  cfg.Views,
		Logger:  logger,
		Metrics: sink,
	})
	if err != nil {
		return fmt.Errorf("build page view service: %w", err)
	}
	defer views.Shutdown()

	handler, err := buildHTTPHandler(httpHandlerConfig{
		Logger: logger,
		HTTP:   cfg.HTTP,
		Services: httpx.RouterServices{
			Views:  views,
			Site:   cfg.Site,
			IsDev:  cfg.IsDev,
			Logger: logger,
		},
	})
	if err != nil {
		return fmt.Errorf("build http handler: %w", err)
	}

	ln := opts.Listener
	if ln == nil {
		addr := cfg.HTTP.Addr
		if addr == "" {
			addr = ":8080"
		}
		ln, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
	}
	server := newHTTPServer(handler, ln, cfg.HTTP)
	if opts.Ready != nil {
		opts.Ready(ln.Addr())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serveHTTP(gctx, server, ln, cfg.HTTP.ShutdownTimeout, logger) })
	g.Go(func() error { return views.Run(gctx) })
	return g.Wait()
}
