package auth

// Phase is the lifecycle state of a page view's auth bootstrap.
type Phase string

const (
	PhaseUninitialized        Phase = "uninitialized"
	PhaseInitializing         Phase = "initializing"
	PhaseReadyAuthenticated   Phase = "ready-authenticated"
	PhaseReadyUnauthenticated Phase = "ready-unauthenticated"
)

// IsReady reports whether the phase is one of the terminal ready phases.
func (p Phase) IsReady() bool {
	return p == PhaseReadyAuthenticated || p == PhaseReadyUnauthenticated
}

// Snapshot is a point-in-time copy of a bootstrap's observable state.
type Snapshot struct {
	Phase Phase
	// Ready is the readiness flag: true once the first auth outcome was observed.
	Ready bool
	// UserID is the session identifier; empty when no principal is signed in.
	UserID string
}

// DisplayUserID returns the identifier to show on the page.
// ok is false until the view is ready and a principal is present.
func (s Snapshot) DisplayUserID() (id string, ok bool) {
	if !s.Ready || s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}
