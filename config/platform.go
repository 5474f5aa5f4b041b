package config

import (
	"strings"

	domainauth "github.com/target/folio/internal/domain/auth"
)

// DefaultAppID is used when APP_ID is not provided.
const DefaultAppID = domainauth.DefaultAppID

// PlatformConfig carries the values a page view needs to reach the identity platform.
// RawConfig is kept as the unparsed JSON string: parsing happens inside each page
// view's bootstrap so that a malformed value is logged there instead of failing startup.
type PlatformConfig struct {
	RawConfig string `env:"PLATFORM_CONFIG"`
	AppID     string `env:"APP_ID"             envDefault:"default-app-id"`

	// InitialAuthToken is the optional one-time sign-in token. Empty means absent.
	InitialAuthToken string `env:"INITIAL_AUTH_TOKEN"`
}

// Sanitize trims values and restores the documented defaults.
func (p *PlatformConfig) Sanitize() {
	p.RawConfig = strings.TrimSpace(p.RawConfig)
	p.AppID = strings.TrimSpace(p.AppID)
	if p.AppID == "" {
		p.AppID = DefaultAppID
	}
	p.InitialAuthToken = strings.TrimSpace(p.InitialAuthToken)
}
