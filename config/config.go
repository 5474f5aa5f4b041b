package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - platform.go: Identity platform configuration handed to each page view
//   - auth.go: Identity platform adapter selection and local platform settings
//   - redis.go: Redis connection used by the local identity platform
//   - http.go: HTTP server configuration
//   - views.go: Page view lifecycle and site copy
type AppConfig struct {
	// IsDev controls development mode behavior (templates and static files from disk).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Platform is the externally supplied identity platform configuration.
	Platform PlatformConfig

	// Identity selects and configures the identity platform adapter.
	Identity IdentityConfig

	// Redis backs the local identity platform when enabled.
	Redis RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Page view lifecycle
	Views ViewsConfig

	// Site copy rendered in the page header and footer.
	Site SiteConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Platform.Sanitize()
	c.Identity.Sanitize()
	c.HTTP.Sanitize()
	c.Views.Sanitize()
	c.Site.Sanitize()
	c.Observability.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// UsesRedis reports whether a Redis connection is needed at startup.
func (c *AppConfig) UsesRedis() bool {
	return c.Redis.Enabled && c.Identity.Mode == IdentityModeLocal
}
