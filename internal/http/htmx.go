package httpx

import (
	"net/http"
	"strings"
)

// sessionBadgeID is the element the badge fragment replaces.
const sessionBadgeID = "session-badge"

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsHistoryRestore reports true when htmx is restoring history (Hx-History-Restore-Request: true).
func IsHistoryRestore(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-History-Restore-Request"), "true")
}

// HXTarget returns the id of the element being swapped, without a leading '#'.
func HXTarget(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Hx-Target"), "#")
}

// WantsFragment reports whether the session endpoint should answer with the
// badge fragment. History restores need the full page, and a request aimed at
// some other element gets JSON.
func WantsFragment(r *http.Request) bool {
	if !IsHTMX(r) || IsHistoryRestore(r) {
		return false
	}
	target := HXTarget(r)
	return target == "" || target == sessionBadgeID
}

// varyOnHTMX marks a response whose representation depends on Hx-Request.
func varyOnHTMX(w http.ResponseWriter) {
	w.Header().Add("Vary", "Hx-Request")
	w.Header().Add("Vary", "Hx-Target")
}
