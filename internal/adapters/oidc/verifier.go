package oidc

// Package oidc verifies OIDC ID tokens presented as one-time sign-in tokens.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/target/folio/internal/domain/auth"
	"golang.org/x/oauth2"
)

// ErrInvalidToken wraps every ID token verification failure.
var ErrInvalidToken = errors.New("invalid id token")

// VerifierConfig holds configuration for the ID token verifier.
type VerifierConfig struct {
	IssuerURL  string
	ClientID   string
	HTTPClient *http.Client // Optional, defaults to a 30s timeout client
	Now        func() time.Time
}

// Verifier implements ports.TokenVerifier on top of go-oidc.
type Verifier struct {
	verifier   *gooidc.IDTokenVerifier
	httpClient *http.Client // used by go-oidc for remote key fetches
}

// NewVerifier runs OIDC discovery against cfg.IssuerURL and returns a verifier
// for ID tokens issued to cfg.ClientID.
func NewVerifier(ctx context.Context, cfg VerifierConfig) (*Verifier, error) {
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.IssuerURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Verifier{
		verifier:   op.Verifier(&gooidc.Config{ClientID: cfg.ClientID, Now: cfg.Now}),
		httpClient: httpClient,
	}, nil
}

// NewVerifierFromKeySet builds a verifier without discovery, for issuers whose
// signing keys are known up front.
func NewVerifierFromKeySet(issuer string, keySet gooidc.KeySet, cfg VerifierConfig) *Verifier {
	return &Verifier{
		verifier:   gooidc.NewVerifier(issuer, keySet, &gooidc.Config{ClientID: cfg.ClientID, Now: cfg.Now}),
		httpClient: cfg.HTTPClient,
	}
}

type idTokenClaims struct {
	JTI string `json:"jti"`
}

// Verify checks signature, audience, issuer and expiry of raw.
// Tokens without a jti are keyed by the SHA-256 of the raw token.
func (v *Verifier) Verify(ctx context.Context, raw string) (domainauth.TokenClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domainauth.TokenClaims{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	if v.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	}

	idTok, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return domainauth.TokenClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if idTok.Subject == "" {
		return domainauth.TokenClaims{}, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}

	var c idTokenClaims
	if err := idTok.Claims(&c); err != nil {
		return domainauth.TokenClaims{}, fmt.Errorf("%w: decode claims: %w", ErrInvalidToken, err)
	}
	tokenID := c.JTI
	if tokenID == "" {
		sum := sha256.Sum256([]byte(raw))
		tokenID = hex.EncodeToString(sum[:])
	}

	return domainauth.TokenClaims{
		Subject:   idTok.Subject,
		TokenID:   tokenID,
		ExpiresAt: idTok.Expiry,
	}, nil
}
