// Package viewmodel holds the data shapes handed to HTML templates.
package viewmodel

import (
	domainauth "github.com/target/folio/internal/domain/auth"
	"github.com/target/folio/internal/domain/portfolio"
)

// Layout captures shared chrome metadata.
type Layout struct {
	Title string
	Year  int
	IsDev bool
}

// Badge is the corner session badge of one page view.
type Badge struct {
	ViewID string
	UserID string
	// Show is true once the view is ready and carries a user id.
	Show bool
	// Poll keeps the badge refreshing while the view is still initializing.
	Poll bool
}

// NewBadge derives the badge state for viewID from a snapshot.
// An empty viewID (no page view could be opened) yields an inert badge.
func NewBadge(viewID string, snap domainauth.Snapshot) Badge {
	b := Badge{ViewID: viewID}
	if viewID == "" {
		return b
	}
	if id, ok := snap.DisplayUserID(); ok {
		b.UserID = id
		b.Show = true
		return b
	}
	b.Poll = !snap.Ready
	return b
}

// PortfolioPage is the data for the full portfolio page.
type PortfolioPage struct {
	Layout
	Page   portfolio.Page
	ViewID string
	Badge  Badge
}

// ErrorPage is the data for error-layout.
type ErrorPage struct {
	Layout
	Status  int
	Message string
}
