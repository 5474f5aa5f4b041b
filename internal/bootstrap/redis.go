package bootstrap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/folio/config"
)

// RedisConnectConfig contains configuration for the Redis connection.
type RedisConnectConfig struct {
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
	// PingTimeout bounds the startup ping; defaults to 5s.
	PingTimeout time.Duration
}

// ConnectRedis establishes a connection to Redis.
//
//nolint:ireturn // returning redis.UniversalClient lets us pick single, sentinel, or cluster clients at runtime.
func ConnectRedis(ctx context.Context, cfg RedisConnectConfig) (redis.UniversalClient, error) {
	var (
		client   redis.UniversalClient
		addrDesc string
		err      error
	)

	switch {
	case cfg.RedisConfig.UseCluster:
		client, addrDesc, err = newClusterClient(cfg.RedisConfig)
	case cfg.RedisConfig.UseSentinel:
		client, addrDesc, err = newSentinelClient(cfg.RedisConfig)
	default:
		client, addrDesc, err = newDirectClient(cfg.RedisConfig)
	}
	if err != nil {
		return nil, err
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if cfg.Logger != nil {
		// Log connection without credentials
		if u, parseErr := url.Parse(addrDesc); parseErr == nil && u.User != nil {
			u.User = url.User("*")
			addrDesc = u.Redacted()
		} else if i := strings.LastIndex(addrDesc, "@"); i > -1 {
			addrDesc = addrDesc[i+1:]
		}

		cfg.Logger.InfoContext(ctx, "redis connected", "addr", addrDesc)
	}

	return client, nil
}

// redisEndpoint is what a single URI contributes to a client's options.
type redisEndpoint struct {
	Addr     string
	Username string
	Password string
	TLS      *tls.Config
	DB       int
}

// parseRedisURI accepts either a bare host:port or a redis:// / rediss:// URL.
// defaultPassword applies unless the URL carries its own.
func parseRedisURI(uri, defaultPassword string) (redisEndpoint, error) {
	ep := redisEndpoint{Password: defaultPassword}
	trimmed := strings.TrimSpace(uri)
	if trimmed == "" || !isRedisURL(trimmed) {
		ep.Addr = trimmed
		return ep, nil
	}

	opt, err := redis.ParseURL(trimmed)
	if err != nil {
		return redisEndpoint{}, fmt.Errorf("parse redis url: %w", err)
	}
	ep.Addr = opt.Addr
	ep.Username = opt.Username
	if opt.Password != "" {
		ep.Password = opt.Password
	}
	ep.TLS = opt.TLSConfig
	ep.DB = opt.DB
	return ep, nil
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func newClusterClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	opts := &redis.ClusterOptions{
		Addrs:    normalizeAddrs(cfg.ClusterNodes),
		Password: cfg.Password,
	}

	// Without explicit nodes the URI seeds the cluster.
	if len(opts.Addrs) == 0 {
		ep, err := parseRedisURI(cfg.URI, cfg.Password)
		if err != nil {
			return nil, "", err
		}
		if ep.Addr != "" {
			opts.Addrs = []string{ep.Addr}
			opts.Username = ep.Username
			opts.Password = ep.Password
			opts.TLSConfig = ep.TLS
		}
	}
	if len(opts.Addrs) == 0 {
		return nil, "", errors.New("redis cluster configuration requires at least one address")
	}

	return redis.NewClusterClient(opts), "cluster:" + strings.Join(opts.Addrs, ","), nil
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func newSentinelClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	nodes := normalizeAddrs(cfg.SentinelNodes)
	if len(nodes) == 0 {
		return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
	}

	client := redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:       cfg.SentinelMasterName,
		SentinelAddrs:    nodes,
		Password:         cfg.Password,
		SentinelPassword: cfg.SentinelPassword,
	})
	return client, "sentinel:" + cfg.SentinelMasterName, nil
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func newDirectClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	ep, err := parseRedisURI(cfg.URI, cfg.Password)
	if err != nil {
		return nil, "", err
	}
	if ep.Addr == "" {
		return nil, "", errors.New("redis direct configuration requires a URI")
	}

	client := redis.NewClient(&redis.Options{
		Addr:      ep.Addr,
		Username:  ep.Username,
		Password:  ep.Password,
		DB:        ep.DB,
		TLSConfig: ep.TLS,
	})
	return client, ep.Addr, nil
}

func normalizeAddrs(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}
