package config

import (
	"strings"
	"time"
)

// ViewsConfig controls how long page views keep their identity session alive.
type ViewsConfig struct {
	// IdleTTL is how long a view survives without a badge poll or close beacon.
	IdleTTL time.Duration `env:"VIEW_IDLE_TTL" envDefault:"2m"`

	// ReapInterval is how often idle views are torn down.
	ReapInterval time.Duration `env:"VIEW_REAP_INTERVAL" envDefault:"30s"`

	// MaxActive caps concurrently live views; new page loads past it render without a badge.
	MaxActive int `env:"VIEW_MAX_ACTIVE" envDefault:"1000"`
}

// Sanitize applies guardrails to page view settings.
func (c *ViewsConfig) Sanitize() {
	if c.IdleTTL <= 0 {
		c.IdleTTL = 2 * time.Minute
	}
	if c.ReapInterval <= 0 {
		c.ReapInterval = 30 * time.Second
	}
	if c.ReapInterval > c.IdleTTL {
		c.ReapInterval = c.IdleTTL
	}
	if c.MaxActive <= 0 {
		c.MaxActive = 1000
	}
}

// SiteConfig holds the copy that differs between deployments of the page.
type SiteConfig struct {
	OwnerName string `env:"SITE_OWNER_NAME" envDefault:"[Your Name Here]"`
	Tagline   string `env:"SITE_TAGLINE"    envDefault:"Experienced Professional IT Architect"`
}

// Sanitize restores defaults for blank values.
func (c *SiteConfig) Sanitize() {
	if c.OwnerName = strings.TrimSpace(c.OwnerName); c.OwnerName == "" {
		c.OwnerName = "[Your Name Here]"
	}
	c.Tagline = strings.TrimSpace(c.Tagline)
}
