package config

import (
	"fmt"
	"strings"
	"time"
)

// IdentityMode selects which identity platform adapter page views connect to.
type IdentityMode string

const (
	// IdentityModeLocal uses the in-process identity platform.
	IdentityModeLocal IdentityMode = "local"
	// IdentityModeToolkit uses a Firebase-compatible Identity Toolkit REST API.
	IdentityModeToolkit IdentityMode = "toolkit"
)

// UnmarshalText implements encoding.TextUnmarshaler for IdentityMode.
func (m *IdentityMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "local", "toolkit":
		*m = IdentityMode(v)
		return nil
	default:
		return fmt.Errorf("invalid IdentityMode: %q (valid options: local, toolkit)", v)
	}
}

// LocalIdentityConfig configures the in-process identity platform.
type LocalIdentityConfig struct {
	// TokenSecret signs and verifies HS256 custom tokens.
	// Leave empty to reject every custom token (anonymous sign-in still works).
	TokenSecret string `env:"TOKEN_SECRET"`
	TokenIssuer string `env:"TOKEN_ISSUER"  envDefault:"folio"`

	// OIDCIssuer switches custom token verification to OIDC ID tokens from this issuer.
	OIDCIssuer   string `env:"OIDC_ISSUER"`
	OIDCClientID string `env:"OIDC_CLIENT_ID"`

	PrincipalTTL time.Duration `env:"PRINCIPAL_TTL" envDefault:"24h"`
}

// IdentityConfig groups identity platform settings.
type IdentityConfig struct {
	Mode IdentityMode `env:"IDENTITY_MODE" envDefault:"local"`

	// Local configuration (used when Mode=local).
	Local LocalIdentityConfig `envPrefix:"LOCAL_IDENTITY_"`

	// ToolkitTimeout bounds each Identity Toolkit request (used when Mode=toolkit).
	ToolkitTimeout time.Duration `env:"IDENTITY_TOOLKIT_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to identity configuration values.
func (c *IdentityConfig) Sanitize() {
	if c.Mode == "" {
		c.Mode = IdentityModeLocal
	}
	c.Local.TokenIssuer = strings.TrimSpace(c.Local.TokenIssuer)
	c.Local.OIDCIssuer = strings.TrimSpace(c.Local.OIDCIssuer)
	c.Local.OIDCClientID = strings.TrimSpace(c.Local.OIDCClientID)
	if c.Local.PrincipalTTL <= 0 {
		c.Local.PrincipalTTL = 24 * time.Hour
	}
	if c.ToolkitTimeout <= 0 {
		c.ToolkitTimeout = 10 * time.Second
	}
}

// UsesOIDC reports whether custom tokens are verified as OIDC ID tokens.
func (c LocalIdentityConfig) UsesOIDC() bool {
	return c.OIDCIssuer != ""
}
