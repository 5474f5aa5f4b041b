package statsd

import (
	"maps"
	"sync"
	"time"
)

// Metric is one call recorded by a Recorder.
type Metric struct {
	Kind  string // "count", "gauge" or "timing"
	Name  string
	Value float64
	Tags  map[string]string
}

// Recorder is an in-memory Sink for tests and local debugging.
type Recorder struct {
	mu      sync.Mutex
	metrics []Metric
}

var _ Sink = (*Recorder)(nil)

func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.add(Metric{Kind: "count", Name: name, Value: float64(value), Tags: maps.Clone(tags)})
}

func (r *Recorder) Gauge(name string, value float64, tags map[string]string) {
	r.add(Metric{Kind: "gauge", Name: name, Value: value, Tags: maps.Clone(tags)})
}

func (r *Recorder) Timing(name string, value time.Duration, tags map[string]string) {
	r.add(Metric{Kind: "timing", Name: name, Value: float64(value), Tags: maps.Clone(tags)})
}

func (r *Recorder) add(m Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = append(r.metrics, m)
}

// Metrics returns a copy of everything recorded so far.
func (r *Recorder) Metrics() []Metric {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Metric(nil), r.metrics...)
}

// Sum adds up count values for name whose tags include every pair in match.
func (r *Recorder) Sum(name string, match map[string]string) int64 {
	var total int64
	for _, m := range r.Metrics() {
		if m.Kind != "count" || m.Name != name {
			continue
		}
		ok := true
		for k, v := range match {
			if m.Tags[k] != v {
				ok = false
				break
			}
		}
		if ok {
			total += int64(m.Value)
		}
	}
	return total
}
