package ports

// Package ports defines interfaces (hexagonal ports) for identity platform behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/target/folio/internal/domain/auth"
)

// AuthStateListener receives auth-state notifications. A nil principal means signed out.
type AuthStateListener func(p *domainauth.Principal)

// IdentityPlatform opens connections to an identity platform.
type IdentityPlatform interface {
	// Connect initializes a client for one page view. It fails on malformed
	// configuration or when the platform cannot be reached.
	Connect(ctx context.Context, cfg domainauth.PlatformConfig, appID string) (IdentityClient, error)
}

// IdentityClient is a single page view's connection to the identity platform.
type IdentityClient interface {
	// SignInAnonymously creates a new anonymous principal and makes it current.
	SignInAnonymously(ctx context.Context) (domainauth.Principal, error)

	// SignInWithCustomToken redeems a one-time token and makes its principal current.
	SignInWithCustomToken(ctx context.Context, token string) (domainauth.Principal, error)

	// OnAuthStateChanged registers a listener. The listener is called once with the
	// current principal shortly after registration and again after every sign-in.
	// The returned function unregisters it and is safe to call more than once.
	OnAuthStateChanged(listener AuthStateListener) (unsubscribe func())
}

// TokenVerifier validates one-time sign-in tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (domainauth.TokenClaims, error)
}

// TokenLedger records redeemed token ids so each token is accepted once.
type TokenLedger interface {
	// Redeem marks tokenID as used until ttl elapses.
	// It returns false if the token was already redeemed.
	Redeem(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
}

// PrincipalStore persists principals issued by the local identity platform.
type PrincipalStore interface {
	Save(ctx context.Context, p domainauth.Principal) error
	Get(ctx context.Context, id string) (domainauth.Principal, error)
	Delete(ctx context.Context, id string) error
}
