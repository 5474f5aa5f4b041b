package auth

// Package auth contains domain-level types for identity platform sessions.
// It is pure and free of framework/adapter concerns.

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Provider names how a principal signed in.
type Provider string

const (
	ProviderAnonymous   Provider = "anonymous"
	ProviderCustomToken Provider = "custom"
)

// Principal is the signed-in identity returned by an identity platform.
// Adapters never return a Principal with an empty ID.
type Principal struct {
	ID        string    `json:"id"`
	Anonymous bool      `json:"anonymous"`
	Provider  Provider  `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenClaims are the verified contents of a one-time sign-in token.
type TokenClaims struct {
	Subject   string
	TokenID   string // unique per token; used to enforce single redemption
	ExpiresAt time.Time
}

// PlatformConfig is the structured identity platform configuration supplied
// by the environment. Unknown JSON fields are ignored.
type PlatformConfig struct {
	APIKey           string `json:"apiKey,omitempty"`
	AuthDomain       string `json:"authDomain,omitempty"`
	ProjectID        string `json:"projectId,omitempty"`
	AppID            string `json:"appId,omitempty"`
	AuthEmulatorHost string `json:"authEmulatorHost,omitempty"`
}

// ParsePlatformConfig decodes a JSON platform configuration.
// A blank value yields the empty configuration.
func ParsePlatformConfig(raw string) (PlatformConfig, error) {
	var cfg PlatformConfig
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return cfg, nil
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return PlatformConfig{}, fmt.Errorf("parse platform config: %w", err)
	}
	return cfg, nil
}

// DefaultAppID is the application identifier used when none is supplied.
const DefaultAppID = "default-app-id"

// BootstrapConfig is everything a page view's auth bootstrap reads at start.
// It replaces process-wide globals: callers build it once and pass it in.
type BootstrapConfig struct {
	// PlatformConfig is the raw JSON configuration; empty means "{}".
	PlatformConfig string
	// AppID defaults to DefaultAppID when empty.
	AppID string
	// InitialAuthToken is the optional one-time sign-in token; empty means absent.
	InitialAuthToken string
}

// ResolvedAppID returns the configured app id or the default.
func (c BootstrapConfig) ResolvedAppID() string {
	if id := strings.TrimSpace(c.AppID); id != "" {
		return id
	}
	return DefaultAppID
}

// HasInitialToken reports whether a one-time token was supplied.
func (c BootstrapConfig) HasInitialToken() bool {
	return strings.TrimSpace(c.InitialAuthToken) != ""
}
