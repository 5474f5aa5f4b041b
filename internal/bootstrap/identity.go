package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/folio/config"
	"github.com/target/folio/internal/adapters/customtoken"
	"github.com/target/folio/internal/adapters/identitytoolkit"
	"github.com/target/folio/internal/adapters/localidp"
	"github.com/target/folio/internal/adapters/memory"
	"github.com/target/folio/internal/adapters/oidc"
	redisadapter "github.com/target/folio/internal/adapters/redis"
	"github.com/target/folio/internal/ports"
)

// IdentityDeps contains what the identity platform adapters need at startup.
type IdentityDeps struct {
	Config config.IdentityConfig
	// RedisClient backs the local platform's stores when set; memory otherwise.
	RedisClient redis.UniversalClient
	KeyPrefix   string
	Logger      *slog.Logger
	Now         func() time.Time
}

// BuildIdentityPlatform selects the identity platform adapter for the configured mode.
//
//nolint:ireturn // the adapter is chosen at runtime.
func BuildIdentityPlatform(ctx context.Context, deps IdentityDeps) (ports.IdentityPlatform, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	switch deps.Config.Mode {
	case config.IdentityModeToolkit:
		logger.InfoContext(ctx, "identity platform: identity toolkit", "timeout", deps.Config.ToolkitTimeout)
		return identitytoolkit.NewPlatform(identitytoolkit.Options{
			Timeout: deps.Config.ToolkitTimeout,
			Logger:  logger,
			Now:     now,
		}), nil

	case config.IdentityModeLocal, "":
		return buildLocalPlatform(ctx, deps, logger, now)

	default:
		return nil, fmt.Errorf("unsupported identity mode %q", deps.Config.Mode)
	}
}

func buildLocalPlatform(
	ctx context.Context,
	deps IdentityDeps,
	logger *slog.Logger,
	now func() time.Time,
) (*localidp.Platform, error) {
	verifier, err := buildTokenVerifier(ctx, deps.Config.Local, now)
	if err != nil {
		return nil, err
	}

	var (
		store  ports.PrincipalStore
		ledger ports.TokenLedger
		kind   string
	)
	if deps.RedisClient != nil {
		store = redisadapter.NewPrincipalStoreWithPrefix(deps.RedisClient, deps.KeyPrefix+"principal:")
		ledger = redisadapter.NewTokenLedger(deps.RedisClient, deps.KeyPrefix+"token:")
		kind = "redis"
	} else {
		store = memory.NewPrincipalStore(now)
		ledger = memory.NewTokenLedger(now)
		kind = "memory"
	}

	logger.InfoContext(ctx, "identity platform: local",
		"store", kind,
		"custom_tokens", verifier != nil,
		"oidc", deps.Config.Local.UsesOIDC(),
	)

	return localidp.NewPlatform(localidp.Options{
		Verifier:     verifier,
		Ledger:       ledger,
		Store:        store,
		PrincipalTTL: deps.Config.Local.PrincipalTTL,
		Now:          now,
		Logger:       logger,
	})
}

// buildTokenVerifier returns nil when no custom-token verification is configured.
//
//nolint:ireturn // the verifier is chosen at runtime.
func buildTokenVerifier(ctx context.Context, cfg config.LocalIdentityConfig, now func() time.Time) (ports.TokenVerifier, error) {
	if cfg.UsesOIDC() {
		if cfg.OIDCClientID == "" {
			return nil, errors.New("LOCAL_IDENTITY_OIDC_CLIENT_ID is required with LOCAL_IDENTITY_OIDC_ISSUER")
		}
		v, err := oidc.NewVerifier(ctx, oidc.VerifierConfig{
			IssuerURL: cfg.OIDCIssuer,
			ClientID:  cfg.OIDCClientID,
			Now:       now,
		})
		if err != nil {
			return nil, fmt.Errorf("oidc verifier: %w", err)
		}
		return v, nil
	}

	if cfg.TokenSecret == "" {
		return nil, nil
	}
	v, err := customtoken.NewVerifier(customtoken.VerifierOptions{
		Secret: cfg.TokenSecret,
		Issuer: cfg.TokenIssuer,
		Now:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("custom token verifier: %w", err)
	}
	return v, nil
}
