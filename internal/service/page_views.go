package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/target/folio/config"
	domainauth "github.com/target/folio/internal/domain/auth"
	"github.com/target/folio/internal/observability/metrics"
	"github.com/target/folio/internal/observability/statsd"
	"github.com/target/folio/internal/ports"
)

var (
	// ErrViewNotFound is returned for unknown, closed or reaped page views.
	ErrViewNotFound = errors.New("page view not found")
	// ErrTooManyViews is returned by Open when the live view cap is reached.
	ErrTooManyViews = errors.New("too many active page views")
	// ErrServiceClosed is returned by Open after Shutdown.
	ErrServiceClosed = errors.New("page view service is shut down")
)

// PageViewServiceOptions groups dependencies for PageViewService.
type PageViewServiceOptions struct {
	Platform ports.IdentityPlatform     // Required: identity platform each view connects to
	Auth     domainauth.BootstrapConfig // Bootstrap settings shared by every view
	Config   config.ViewsConfig         // Idle TTL, reap interval and view cap
	Logger   *slog.Logger               // Optional: structured logger
	Metrics  statsd.Sink                // Optional: metrics sink (StatsD-compatible)
	Now      func() time.Time           // Optional: clock, defaults to time.Now
}

// PageView identifies an opened page view.
type PageView struct {
	ID       string
	Snapshot domainauth.Snapshot
}

type viewEntry struct {
	bootstrap *AuthBootstrap
	lastSeen  time.Time
}

// PageViewService owns one AuthBootstrap per rendered page view, from Open
// until Close, idle reaping or Shutdown.
type PageViewService struct {
	platform ports.IdentityPlatform
	auth     domainauth.BootstrapConfig
	config   config.ViewsConfig
	logger   *slog.Logger
	metrics  statsd.Sink
	now      func() time.Time

	mu     sync.Mutex
	views  map[string]*viewEntry
	closed bool
}

// NewPageViewService constructs a PageViewService.
func NewPageViewService(opts PageViewServiceOptions) (*PageViewService, error) {
	if opts.Platform == nil {
		return nil, errors.New("IdentityPlatform is required")
	}
	cfg := opts.Config
	cfg.Sanitize()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Discard
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger = logger.With("component", "page_view_service")
	logger.Debug("PageViewService initialized",
		"idle_ttl", cfg.IdleTTL,
		"reap_interval", cfg.ReapInterval,
		"max_active", cfg.MaxActive,
		"initial_token", opts.Auth.HasInitialToken(),
	)

	return &PageViewService{
		platform: opts.Platform,
		auth:     opts.Auth,
		config:   cfg,
		logger:   logger,
		metrics:  sink,
		now:      now,
		views:    make(map[string]*viewEntry),
	}, nil
}

// Open registers a new page view and starts its auth bootstrap in the
// background. The bootstrap outlives ctx's cancellation; it ends on Close.
func (s *PageViewService) Open(ctx context.Context) (PageView, error) {
	if n := s.reapIfFull(ctx); n > 0 {
		s.logger.DebugContext(ctx, "reaped idle views to make room", "count", n)
	}

	id := uuid.NewString()
	b, err := NewAuthBootstrap(AuthBootstrapOptions{
		Platform: s.platform,
		Config:   s.auth,
		Logger:   s.logger.With("view_id", id),
		Metrics:  s.metrics,
	})
	if err != nil {
		return PageView{}, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return PageView{}, ErrServiceClosed
	}
	if len(s.views) >= s.config.MaxActive {
		active := len(s.views)
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "page view cap reached", "active", active)
		metrics.EmitViewEvent(s.metrics, "rejected", 1)
		return PageView{}, ErrTooManyViews
	}
	s.views[id] = &viewEntry{bootstrap: b, lastSeen: s.now()}
	active := len(s.views)
	s.mu.Unlock()

	b.Start(context.WithoutCancel(ctx))

	metrics.EmitViewEvent(s.metrics, "open", 1)
	metrics.EmitViews(s.metrics, active)
	return PageView{ID: id, Snapshot: b.Snapshot()}, nil
}

// Snapshot returns the view's current auth snapshot and keeps it alive.
func (s *PageViewService) Snapshot(id string) (domainauth.Snapshot, error) {
	s.mu.Lock()
	e, ok := s.views[id]
	if ok {
		e.lastSeen = s.now()
	}
	s.mu.Unlock()

	if !ok {
		return domainauth.Snapshot{}, ErrViewNotFound
	}
	return e.bootstrap.Snapshot(), nil
}

// Close tears down the view. Unknown ids yield ErrViewNotFound.
func (s *PageViewService) Close(id string) error {
	s.mu.Lock()
	e, ok := s.views[id]
	delete(s.views, id)
	active := len(s.views)
	s.mu.Unlock()

	if !ok {
		return ErrViewNotFound
	}
	e.bootstrap.Close()
	metrics.EmitViewEvent(s.metrics, "close", 1)
	metrics.EmitViews(s.metrics, active)
	return nil
}

// Reap closes every view idle for longer than the configured TTL and
// returns how many were closed.
func (s *PageViewService) Reap(ctx context.Context) int {
	s.mu.Lock()
	idle := s.takeIdleLocked()
	active := len(s.views)
	s.mu.Unlock()

	closeAll(idle)
	if len(idle) > 0 {
		s.logger.InfoContext(ctx, "reaped idle page views", "count", len(idle), "active", active)
	}
	metrics.EmitViewEvent(s.metrics, "reap", len(idle))
	metrics.EmitViews(s.metrics, active)
	return len(idle)
}

func (s *PageViewService) reapIfFull(ctx context.Context) int {
	s.mu.Lock()
	full := len(s.views) >= s.config.MaxActive
	s.mu.Unlock()
	if !full {
		return 0
	}
	return s.Reap(ctx)
}

func (s *PageViewService) takeIdleLocked() []*AuthBootstrap {
	cutoff := s.now().Add(-s.config.IdleTTL)
	var idle []*AuthBootstrap
	for id, e := range s.views {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e.bootstrap)
			delete(s.views, id)
		}
	}
	return idle
}

// Run reaps idle views every ReapInterval until ctx is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *PageViewService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting page view reaper", "interval", s.config.ReapInterval)

	ticker := time.NewTicker(s.config.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "page view reaper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			s.Reap(ctx)
		}
	}
}

// Shutdown closes every live view and rejects further Opens.
func (s *PageViewService) Shutdown() {
	s.mu.Lock()
	s.closed = true
	all := make([]*AuthBootstrap, 0, len(s.views))
	for id, e := range s.views {
		all = append(all, e.bootstrap)
		delete(s.views, id)
	}
	s.mu.Unlock()

	closeAll(all)
	s.logger.Info("page views shut down", "closed", len(all))
}

// Active returns the number of live views.
func (s *PageViewService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func closeAll(bs []*AuthBootstrap) {
	var wg sync.WaitGroup
	for _, b := range bs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Close()
		}()
	}
	wg.Wait()
}
