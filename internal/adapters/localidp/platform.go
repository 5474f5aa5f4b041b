// Package localidp is an in-process identity platform. It issues anonymous
// principals and redeems one-time custom tokens without any external service.
package localidp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/target/folio/internal/core"
	domainauth "github.com/target/folio/internal/domain/auth"
	"github.com/target/folio/internal/ports"
)

var (
	// ErrTokenRedeemed is returned when a one-time token is presented again.
	ErrTokenRedeemed = errors.New("custom token already redeemed")
	// ErrCustomTokensDisabled is returned when no token verifier is configured.
	ErrCustomTokensDisabled = errors.New("custom token sign-in is not configured")
)

const (
	defaultPrincipalTTL = 24 * time.Hour
	minLedgerTTL        = time.Minute
)

// Options configures the local identity platform.
type Options struct {
	// Verifier validates custom tokens. Nil disables custom-token sign-in.
	Verifier ports.TokenVerifier
	// Ledger enforces single redemption (required).
	Ledger ports.TokenLedger
	// Store persists issued principals (required).
	Store        ports.PrincipalStore
	PrincipalTTL time.Duration
	Now          func() time.Time
	Logger       *slog.Logger
}

// Platform implements ports.IdentityPlatform.
type Platform struct {
	verifier ports.TokenVerifier
	ledger   ports.TokenLedger
	store    ports.PrincipalStore
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewPlatform validates opts and returns a Platform.
func NewPlatform(opts Options) (*Platform, error) {
	if opts.Ledger == nil {
		return nil, errors.New("token ledger is required")
	}
	if opts.Store == nil {
		return nil, errors.New("principal store is required")
	}
	if opts.PrincipalTTL <= 0 {
		opts.PrincipalTTL = defaultPrincipalTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Platform{
		verifier: opts.Verifier,
		ledger:   opts.Ledger,
		store:    opts.Store,
		ttl:      opts.PrincipalTTL,
		now:      opts.Now,
		logger:   opts.Logger.With("component", "localidp"),
	}, nil
}

// Connect returns a client for one page view. The platform configuration is
// accepted as-is; only the app id is attached to log records.
func (p *Platform) Connect(ctx context.Context, _ domainauth.PlatformConfig, appID string) (ports.IdentityClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return &Client{platform: p, logger: p.logger.With("app_id", appID)}, nil
}

// Client is a page view's session with the local platform.
type Client struct {
	platform *Platform
	logger   *slog.Logger
	state    core.AuthState
}

// SignInAnonymously issues a fresh anonymous principal.
func (c *Client) SignInAnonymously(ctx context.Context) (domainauth.Principal, error) {
	if err := ctx.Err(); err != nil {
		return domainauth.Principal{}, err
	}
	now := c.platform.now().UTC()
	pr := domainauth.Principal{
		ID:        uuid.NewString(),
		Anonymous: true,
		Provider:  domainauth.ProviderAnonymous,
		CreatedAt: now,
		ExpiresAt: now.Add(c.platform.ttl),
	}
	if err := c.platform.store.Save(ctx, pr); err != nil {
		return domainauth.Principal{}, fmt.Errorf("save principal: %w", err)
	}
	c.logger.DebugContext(ctx, "anonymous principal issued", "principal_id", pr.ID)
	c.state.Set(&pr)
	return pr, nil
}

// SignInWithCustomToken verifies token, spends it in the ledger and signs in
// as the token's subject.
func (c *Client) SignInWithCustomToken(ctx context.Context, token string) (domainauth.Principal, error) {
	if c.platform.verifier == nil {
		return domainauth.Principal{}, ErrCustomTokensDisabled
	}
	claims, err := c.platform.verifier.Verify(ctx, token)
	if err != nil {
		return domainauth.Principal{}, fmt.Errorf("verify custom token: %w", err)
	}

	now := c.platform.now().UTC()
	ledgerTTL := claims.ExpiresAt.Sub(now)
	if ledgerTTL < minLedgerTTL {
		ledgerTTL = minLedgerTTL
	}
	fresh, err := c.platform.ledger.Redeem(ctx, claims.TokenID, ledgerTTL)
	if err != nil {
		return domainauth.Principal{}, fmt.Errorf("redeem custom token: %w", err)
	}
	if !fresh {
		return domainauth.Principal{}, ErrTokenRedeemed
	}

	pr := domainauth.Principal{
		ID:        claims.Subject,
		Provider:  domainauth.ProviderCustomToken,
		CreatedAt: now,
		ExpiresAt: now.Add(c.platform.ttl),
	}
	if existing, err := c.platform.store.Get(ctx, claims.Subject); err == nil {
		pr.CreatedAt = existing.CreatedAt
	}
	if err := c.platform.store.Save(ctx, pr); err != nil {
		return domainauth.Principal{}, fmt.Errorf("save principal: %w", err)
	}
	c.logger.DebugContext(ctx, "custom token redeemed", "principal_id", pr.ID, "token_id", claims.TokenID)
	c.state.Set(&pr)
	return pr, nil
}

// OnAuthStateChanged registers listener on this client's auth state.
func (c *Client) OnAuthStateChanged(listener ports.AuthStateListener) func() {
	return c.state.Subscribe(listener)
}
