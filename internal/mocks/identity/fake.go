package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/target/folio/internal/core"
	domainauth "github.com/target/folio/internal/domain/auth"
	"github.com/target/folio/internal/ports"
)

// ErrInvalidToken is the default custom-token failure of FakeClient.
var ErrInvalidToken = errors.New("fake: invalid custom token")

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityPlatform = (*FakePlatform)(nil)
	_ ports.IdentityClient   = (*FakeClient)(nil)
)

// FakePlatform hands out a single FakeClient, or fails to connect.
type FakePlatform struct {
	Client     *FakeClient
	ConnectErr error

	mu        sync.Mutex
	connects  int
	lastCfg   domainauth.PlatformConfig
	lastAppID string
}

// NewFakePlatform returns a platform whose Connect yields client.
func NewFakePlatform(client *FakeClient) *FakePlatform {
	return &FakePlatform{Client: client}
}

func (p *FakePlatform) Connect(ctx context.Context, cfg domainauth.PlatformConfig, appID string) (ports.IdentityClient, error) {
	p.mu.Lock()
	p.connects++
	p.lastCfg = cfg
	p.lastAppID = appID
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.ConnectErr != nil {
		return nil, p.ConnectErr
	}
	if p.Client == nil {
		return nil, errors.New("fake: no client configured")
	}
	return p.Client, nil
}

// Connects returns the number of Connect calls.
func (p *FakePlatform) Connects() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connects
}

// LastConnect returns the arguments of the most recent Connect call.
func (p *FakePlatform) LastConnect() (domainauth.PlatformConfig, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCfg, p.lastAppID
}

// FakeClient is a scriptable identity client. Its auth state is the same
// core.AuthState the real adapters use, so successful sign-ins make the
// principal current and notify listeners synchronously.
type FakeClient struct {
	// AnonymousFunc overrides SignInAnonymously. By default it returns anon-1, anon-2, ...
	AnonymousFunc func(ctx context.Context) (domainauth.Principal, error)
	// CustomTokenFunc overrides SignInWithCustomToken. By default every token fails with ErrInvalidToken.
	CustomTokenFunc func(ctx context.Context, token string) (domainauth.Principal, error)

	state core.AuthState

	mu           sync.Mutex
	anonCalls    int
	tokenCalls   int
	tokens       []string
	subscribes   int
	unsubscribes int
}

// NewFakeClient returns a client with default behavior.
func NewFakeClient() *FakeClient {
	return &FakeClient{}
}

// AnonymousReturns scripts SignInAnonymously to return id (or err when non-nil).
func (c *FakeClient) AnonymousReturns(id string, err error) *FakeClient {
	c.AnonymousFunc = func(context.Context) (domainauth.Principal, error) {
		if err != nil {
			return domainauth.Principal{}, err
		}
		return domainauth.Principal{ID: id, Anonymous: true, Provider: domainauth.ProviderAnonymous}, nil
	}
	return c
}

// CustomTokenReturns scripts SignInWithCustomToken to return id (or err when non-nil).
func (c *FakeClient) CustomTokenReturns(id string, err error) *FakeClient {
	c.CustomTokenFunc = func(context.Context, string) (domainauth.Principal, error) {
		if err != nil {
			return domainauth.Principal{}, err
		}
		return domainauth.Principal{ID: id, Provider: domainauth.ProviderCustomToken}, nil
	}
	return c
}

func (c *FakeClient) SignInAnonymously(ctx context.Context) (domainauth.Principal, error) {
	c.mu.Lock()
	c.anonCalls++
	n := c.anonCalls
	fn := c.AnonymousFunc
	c.mu.Unlock()

	var (
		p   domainauth.Principal
		err error
	)
	if fn != nil {
		p, err = fn(ctx)
	} else {
		p = domainauth.Principal{ID: fmt.Sprintf("anon-%d", n), Anonymous: true, Provider: domainauth.ProviderAnonymous}
	}
	if err != nil {
		return domainauth.Principal{}, err
	}
	c.signedIn(p)
	return p, nil
}

func (c *FakeClient) SignInWithCustomToken(ctx context.Context, token string) (domainauth.Principal, error) {
	c.mu.Lock()
	c.tokenCalls++
	c.tokens = append(c.tokens, token)
	fn := c.CustomTokenFunc
	c.mu.Unlock()

	if fn == nil {
		return domainauth.Principal{}, ErrInvalidToken
	}
	p, err := fn(ctx, token)
	if err != nil {
		return domainauth.Principal{}, err
	}
	c.signedIn(p)
	return p, nil
}

func (c *FakeClient) signedIn(p domainauth.Principal) {
	c.state.Set(&p)
}

// Emit makes p current (nil signs out) and notifies listeners synchronously.
func (c *FakeClient) Emit(p *domainauth.Principal) {
	c.state.Set(p)
}

// Current returns the current principal, or nil when signed out.
func (c *FakeClient) Current() *domainauth.Principal {
	return c.state.Current()
}

// OnAuthStateChanged registers listener and counts every unsubscribe call,
// including repeats.
func (c *FakeClient) OnAuthStateChanged(listener ports.AuthStateListener) func() {
	c.mu.Lock()
	c.subscribes++
	c.mu.Unlock()

	unsubscribe := c.state.Subscribe(listener)
	return func() {
		c.mu.Lock()
		c.unsubscribes++
		c.mu.Unlock()
		unsubscribe()
	}
}

// AnonymousCalls returns the number of SignInAnonymously calls.
func (c *FakeClient) AnonymousCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anonCalls
}

// CustomTokenCalls returns the number of SignInWithCustomToken calls.
func (c *FakeClient) CustomTokenCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokenCalls
}

// Tokens returns every token passed to SignInWithCustomToken.
func (c *FakeClient) Tokens() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.tokens...)
}

// Subscribes returns the number of OnAuthStateChanged calls.
func (c *FakeClient) Subscribes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscribes
}

// Unsubscribes returns how many times any unsubscribe func was called.
func (c *FakeClient) Unsubscribes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsubscribes
}

// ListenerCount returns the number of registered listeners.
func (c *FakeClient) ListenerCount() int {
	return c.state.ListenerCount()
}
