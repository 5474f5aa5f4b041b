package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/folio/internal/observability/statsd"
)

func TestEmitAuthAttempt_Success(t *testing.T) {
	var rec statsd.Recorder
	EmitAuthAttempt(&rec, AuthAttempt{Method: MethodAnonymous, Duration: 20 * time.Millisecond})

	ms := rec.Metrics()
	require.Len(t, ms, 2)
	assert.Equal(t, "auth.attempt", ms[0].Name)
	assert.Equal(t, map[string]string{"method": "anonymous", "outcome": "success"}, ms[0].Tags)
	assert.Equal(t, "timing", ms[1].Kind)
}

func TestEmitAuthAttempt_ErrorTagged(t *testing.T) {
	var rec statsd.Recorder
	EmitAuthAttempt(&rec, AuthAttempt{Method: MethodCustomToken, Err: fmt.Errorf("redeem: %w", context.DeadlineExceeded)})

	ms := rec.Metrics()
	require.Len(t, ms, 1)
	assert.Equal(t, "error", ms[0].Tags["outcome"])
	assert.Equal(t, "timeout", ms[0].Tags["error_type"])
}

func TestEmitters_NilSink(t *testing.T) {
	EmitAuthAttempt(nil, AuthAttempt{Err: errors.New("x")})
	EmitReady(nil, "ready-authenticated", time.Second)
	EmitViews(nil, 1)
	EmitViewEvent(nil, "open", 1)
}

func TestEmitViewEvent_SkipsZero(t *testing.T) {
	var rec statsd.Recorder
	EmitViewEvent(&rec, "reap", 0)
	EmitViewEvent(&rec, "reap", 2)
	assert.Equal(t, int64(2), rec.Sum("views.event", map[string]string{"event": "reap"}))
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	src := map[string]string{"a": "1"}
	cp := CloneTags(src)
	cp["a"] = "2"
	assert.Equal(t, "1", src["a"])
}
