// Package metrics holds the metric names and tag conventions used across folio.
package metrics

import (
	"time"

	obserrors "github.com/target/folio/internal/observability/errors"
	"github.com/target/folio/internal/observability/statsd"
)

// Outcome tag values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Method tag values for auth attempts.
const (
	MethodConnect     = "connect"
	MethodConfig      = "config"
	MethodAnonymous   = "anonymous"
	MethodCustomToken = "custom_token"
)

// AuthAttempt describes one step of a page view's auth bootstrap.
type AuthAttempt struct {
	Method   string
	Duration time.Duration
	Err      error
}

// EmitAuthAttempt counts the attempt and records its latency.
func EmitAuthAttempt(sink statsd.Sink, in AuthAttempt) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"method":  in.Method,
		"outcome": OutcomeSuccess,
	}
	if in.Err != nil {
		tags["outcome"] = OutcomeError
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_type"] = class
		}
	}

	sink.Count("auth.attempt", 1, tags)
	if in.Duration > 0 {
		sink.Timing("auth.duration", in.Duration, CloneTags(tags))
	}
}

// EmitReady counts a page view reaching a ready phase.
func EmitReady(sink statsd.Sink, phase string, sinceStart time.Duration) {
	if sink == nil {
		return
	}
	tags := map[string]string{"phase": phase}
	sink.Count("auth.ready", 1, tags)
	sink.Timing("auth.time_to_ready", sinceStart, CloneTags(tags))
}

// EmitViews reports the number of live page views.
func EmitViews(sink statsd.Sink, active int) {
	if sink == nil {
		return
	}
	sink.Gauge("views.active", float64(active), nil)
}

// EmitViewEvent counts a page view lifecycle event such as open, close or reap.
func EmitViewEvent(sink statsd.Sink, event string, n int) {
	if sink == nil || n <= 0 {
		return
	}
	sink.Count("views.event", int64(n), map[string]string{"event": event})
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
