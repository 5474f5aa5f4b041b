package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/target/folio/internal/domain/auth"
	"github.com/target/folio/internal/observability/metrics"
	"github.com/target/folio/internal/observability/statsd"
	"github.com/target/folio/internal/ports"
)

// AuthBootstrapOptions groups dependencies for AuthBootstrap.
type AuthBootstrapOptions struct {
	Platform ports.IdentityPlatform     // Required: identity platform to connect to
	Config   domainauth.BootstrapConfig // Platform config, app id and optional one-time token
	Logger   *slog.Logger               // Optional: structured logger
	Metrics  statsd.Sink                // Optional: metrics sink (StatsD-compatible)
}

// AuthBootstrap establishes one signed-in session for a page view and exposes
// its identifier.
//
// All state changes happen on a single coordinator goroutine. The one-time
// token path (redeem, then at most one anonymous fallback) completes before
// any auth-state notification is handled; notifications that arrive
// meanwhile wait in a queue and are collapsed afterwards: the latest
// principal wins, otherwise a single "signed out" notification is handled.
//
// Both ready phases are terminal. Once ready-unauthenticated, later principals
// are ignored. While ready-authenticated, a later principal replaces the
// identifier and a "signed out" notification never clears it.
type AuthBootstrap struct {
	platform ports.IdentityPlatform
	cfg      domainauth.BootstrapConfig
	logger   *slog.Logger
	metrics  statsd.Sink

	startOnce sync.Once
	closeOnce sync.Once

	mu        sync.Mutex
	phase     domainauth.Phase
	ready     bool
	userID    string
	closed    bool
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	readyCh   chan struct{}
	done      chan struct{}

	qmu     sync.Mutex
	queue   []*domainauth.Principal
	qclosed bool
	wake    chan struct{}
}

// NewAuthBootstrap constructs an AuthBootstrap in the uninitialized phase.
func NewAuthBootstrap(opts AuthBootstrapOptions) (*AuthBootstrap, error) {
	if opts.Platform == nil {
		return nil, errors.New("IdentityPlatform is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Discard
	}
	return &AuthBootstrap{
		platform: opts.Platform,
		cfg:      opts.Config,
		logger:   logger.With("component", "auth_bootstrap"),
		metrics:  sink,
		phase:    domainauth.PhaseUninitialized,
		readyCh:  make(chan struct{}),
		done:     make(chan struct{}),
		wake:     make(chan struct{}, 1),
	}, nil
}

// Start launches initialization in the background and returns immediately.
// Only the first call has an effect, and none after Close.
// ctx bounds the whole lifetime of the bootstrap, not just initialization.
func (b *AuthBootstrap) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return
		}
		runCtx, cancel := context.WithCancel(ctx)
		b.cancel = cancel
		b.started = true
		b.startedAt = time.Now()
		b.phase = domainauth.PhaseInitializing
		b.mu.Unlock()

		go b.run(runCtx)
	})
}

// Snapshot returns the current phase, readiness flag and user id.
func (b *AuthBootstrap) Snapshot() domainauth.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return domainauth.Snapshot{Phase: b.phase, Ready: b.ready, UserID: b.userID}
}

// Ready is closed when the readiness flag becomes true.
func (b *AuthBootstrap) Ready() <-chan struct{} {
	return b.readyCh
}

// Done is closed when the coordinator has exited. It never closes if Start was not called.
func (b *AuthBootstrap) Done() <-chan struct{} {
	return b.done
}

// Close tears the bootstrap down: it cancels in-flight work, waits for the
// coordinator to release the auth-state listener and discards any later
// mutation. Safe to call more than once and before Start.
func (b *AuthBootstrap) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		cancel := b.cancel
		started := b.started
		b.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if started {
			<-b.done
		}
	})
}

func (b *AuthBootstrap) run(ctx context.Context) {
	defer close(b.done)
	defer b.closeQueue()

	client, ok := b.connect(ctx)
	if !ok {
		return
	}

	unsubscribe := client.OnAuthStateChanged(b.enqueue)
	defer unsubscribe()

	if b.cfg.HasInitialToken() {
		b.redeemInitialToken(ctx, client)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.wake:
			p, pending := b.drain()
			if !pending {
				continue
			}
			b.handleAuthState(ctx, client, p)
		}
	}
}

func (b *AuthBootstrap) connect(ctx context.Context) (ports.IdentityClient, bool) {
	platformCfg, err := domainauth.ParsePlatformConfig(b.cfg.PlatformConfig)
	if err != nil {
		b.logger.ErrorContext(ctx, "platform config is malformed, using empty config", "error", err)
		metrics.EmitAuthAttempt(b.metrics, metrics.AuthAttempt{Method: metrics.MethodConfig, Err: err})
		platformCfg = domainauth.PlatformConfig{}
	}

	appID := b.cfg.ResolvedAppID()
	start := time.Now()
	client, err := b.platform.Connect(ctx, platformCfg, appID)
	metrics.EmitAuthAttempt(b.metrics, metrics.AuthAttempt{
		Method:   metrics.MethodConnect,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to initialize identity platform", "app_id", appID, "error", err)
		return nil, false
	}
	return client, true
}

// redeemInitialToken signs in with the one-time token and falls back to a
// single anonymous sign-in when redemption fails.
func (b *AuthBootstrap) redeemInitialToken(ctx context.Context, client ports.IdentityClient) {
	start := time.Now()
	p, err := client.SignInWithCustomToken(ctx, b.cfg.InitialAuthToken)
	metrics.EmitAuthAttempt(b.metrics, metrics.AuthAttempt{
		Method:   metrics.MethodCustomToken,
		Duration: time.Since(start),
		Err:      err,
	})
	if err == nil {
		// The auth-state notification for this sign-in records the id.
		b.logger.InfoContext(ctx, "signed in with custom token", "user_id", p.ID)
		return
	}
	b.logger.ErrorContext(ctx, "custom token sign-in failed", "error", err)

	if p, ok := b.signInAnonymously(ctx, client); ok {
		b.recordPrincipal(ctx, p.ID)
	}
}

func (b *AuthBootstrap) signInAnonymously(ctx context.Context, client ports.IdentityClient) (domainauth.Principal, bool) {
	start := time.Now()
	p, err := client.SignInAnonymously(ctx)
	metrics.EmitAuthAttempt(b.metrics, metrics.AuthAttempt{
		Method:   metrics.MethodAnonymous,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		b.logger.ErrorContext(ctx, "anonymous sign-in failed", "error", err)
		return domainauth.Principal{}, false
	}
	b.logger.InfoContext(ctx, "anonymous sign-in succeeded", "user_id", p.ID)
	return p, true
}

func (b *AuthBootstrap) handleAuthState(ctx context.Context, client ports.IdentityClient, p *domainauth.Principal) {
	if p != nil {
		b.recordPrincipal(ctx, p.ID)
		return
	}

	b.mu.Lock()
	ready := b.ready
	b.mu.Unlock()
	if ready {
		b.logger.DebugContext(ctx, "ignoring signed-out notification after ready")
		return
	}

	if !b.cfg.HasInitialToken() {
		if p, ok := b.signInAnonymously(ctx, client); ok {
			b.recordPrincipal(ctx, p.ID)
		}
	}
	b.markReady(ctx)
}

// recordPrincipal stores id and marks the view ready in the same critical section.
func (b *AuthBootstrap) recordPrincipal(ctx context.Context, id string) {
	b.mu.Lock()
	if b.closed || id == "" {
		b.mu.Unlock()
		return
	}
	if b.phase == domainauth.PhaseReadyUnauthenticated {
		b.mu.Unlock()
		b.logger.DebugContext(ctx, "ignoring principal after ready-unauthenticated", "user_id", id)
		return
	}
	b.userID = id
	transitioned := b.setReadyLocked(domainauth.PhaseReadyAuthenticated)
	b.mu.Unlock()

	if transitioned {
		b.reportReady(ctx, domainauth.PhaseReadyAuthenticated, id)
	}
}

func (b *AuthBootstrap) markReady(ctx context.Context) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	transitioned := b.setReadyLocked(domainauth.PhaseReadyUnauthenticated)
	b.mu.Unlock()

	if transitioned {
		b.reportReady(ctx, domainauth.PhaseReadyUnauthenticated, "")
	}
}

// setReadyLocked sets the readiness flag once. It reports whether this call flipped it.
func (b *AuthBootstrap) setReadyLocked(phase domainauth.Phase) bool {
	if b.ready {
		return false
	}
	b.ready = true
	b.phase = phase
	close(b.readyCh)
	return true
}

func (b *AuthBootstrap) reportReady(ctx context.Context, phase domainauth.Phase, userID string) {
	b.mu.Lock()
	elapsed := time.Since(b.startedAt)
	b.mu.Unlock()

	metrics.EmitReady(b.metrics, string(phase), elapsed)
	b.logger.InfoContext(ctx, "auth bootstrap ready", "phase", string(phase), "user_id", userID)
}

// enqueue is the auth-state listener. It never blocks, so adapters may call
// it synchronously from inside a sign-in.
func (b *AuthBootstrap) enqueue(p *domainauth.Principal) {
	b.qmu.Lock()
	if b.qclosed {
		b.qmu.Unlock()
		return
	}
	b.queue = append(b.queue, p)
	b.qmu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// drain empties the queue and collapses it to one notification.
func (b *AuthBootstrap) drain() (*domainauth.Principal, bool) {
	b.qmu.Lock()
	batch := b.queue
	b.queue = nil
	b.qmu.Unlock()

	if len(batch) == 0 {
		return nil, false
	}
	for i := len(batch) - 1; i >= 0; i-- {
		if batch[i] != nil {
			return batch[i], true
		}
	}
	return nil, true
}

func (b *AuthBootstrap) closeQueue() {
	b.qmu.Lock()
	b.qclosed = true
	b.queue = nil
	b.qmu.Unlock()
}
