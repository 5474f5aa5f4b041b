// Package identitytoolkit talks to a Firebase-compatible Identity Toolkit
// REST API, or to its local emulator.
package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/target/folio/internal/core"
	domainauth "github.com/target/folio/internal/domain/auth"
	"github.com/target/folio/internal/ports"
)

const (
	// DefaultBaseURL is the production Identity Toolkit endpoint.
	DefaultBaseURL = "https://identitytoolkit.googleapis.com"
	emulatorPath   = "/identitytoolkit.googleapis.com"

	signUpPath          = "/v1/accounts:signUp"
	signInWithTokenPath = "/v1/accounts:signInWithCustomToken"

	maxResponseBytes = 1 << 20
)

// ErrAPIKeyRequired is returned by Connect when the config has no apiKey.
var ErrAPIKeyRequired = errors.New("platform config apiKey is required")

// APIError is an error response from the Identity Toolkit API.
type APIError struct {
	Status  int    // HTTP status
	Code    int    // error.code from the body
	Message string // error.message, e.g. INVALID_CUSTOM_TOKEN
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity toolkit: %s (status %d)", e.Message, e.Status)
}

// ErrorClass returns the leading error code, e.g. INVALID_CUSTOM_TOKEN.
func (e *APIError) ErrorClass() string {
	if f := strings.Fields(strings.ReplaceAll(e.Message, ":", " ")); len(f) > 0 {
		return f[0]
	}
	return "api_error"
}

// Options configures the Identity Toolkit platform.
type Options struct {
	HTTPClient *http.Client  // Optional; a client with Timeout is created when nil
	Timeout    time.Duration // Used only when HTTPClient is nil; defaults to 10s
	Logger     *slog.Logger
	Now        func() time.Time
}

// Platform implements ports.IdentityPlatform.
type Platform struct {
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// NewPlatform creates a Platform.
func NewPlatform(opts Options) *Platform {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Platform{httpClient: client, logger: opts.Logger.With("component", "identitytoolkit"), now: opts.Now}
}

// BaseURL returns the API root for cfg.
func BaseURL(cfg domainauth.PlatformConfig) string {
	if host := strings.TrimSpace(cfg.AuthEmulatorHost); host != "" {
		host = strings.TrimPrefix(strings.TrimPrefix(host, "http://"), "https://")
		return "http://" + strings.TrimSuffix(host, "/") + emulatorPath
	}
	return DefaultBaseURL
}

// Connect validates cfg and returns a client bound to it.
func (p *Platform) Connect(ctx context.Context, cfg domainauth.PlatformConfig, appID string) (ports.IdentityClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrAPIKeyRequired
	}
	return &Client{
		platform: p,
		baseURL:  BaseURL(cfg),
		apiKey:   cfg.APIKey,
		logger:   p.logger.With("app_id", appID, "project_id", cfg.ProjectID),
	}, nil
}

// Client is one page view's session with the Identity Toolkit API.
type Client struct {
	platform *Platform
	baseURL  string
	apiKey   string
	logger   *slog.Logger
	state    core.AuthState
}

type signInResponse struct {
	IDToken   string `json:"idToken"`
	LocalID   string `json:"localId"`
	ExpiresIn string `json:"expiresIn"`
	IsNewUser bool   `json:"isNewUser"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignInAnonymously creates an anonymous account.
func (c *Client) SignInAnonymously(ctx context.Context) (domainauth.Principal, error) {
	var resp signInResponse
	if err := c.post(ctx, signUpPath, map[string]any{"returnSecureToken": true}, &resp); err != nil {
		return domainauth.Principal{}, fmt.Errorf("sign in anonymously: %w", err)
	}
	pr, err := c.principal(resp, domainauth.ProviderAnonymous)
	if err != nil {
		return domainauth.Principal{}, fmt.Errorf("sign in anonymously: %w", err)
	}
	c.state.Set(&pr)
	return pr, nil
}

// SignInWithCustomToken exchanges a custom token for a session.
func (c *Client) SignInWithCustomToken(ctx context.Context, token string) (domainauth.Principal, error) {
	var resp signInResponse
	body := map[string]any{"token": token, "returnSecureToken": true}
	if err := c.post(ctx, signInWithTokenPath, body, &resp); err != nil {
		return domainauth.Principal{}, fmt.Errorf("sign in with custom token: %w", err)
	}
	pr, err := c.principal(resp, domainauth.ProviderCustomToken)
	if err != nil {
		return domainauth.Principal{}, fmt.Errorf("sign in with custom token: %w", err)
	}
	c.state.Set(&pr)
	return pr, nil
}

// OnAuthStateChanged registers listener on this client's auth state.
func (c *Client) OnAuthStateChanged(listener ports.AuthStateListener) func() {
	return c.state.Subscribe(listener)
}

func (c *Client) principal(resp signInResponse, provider domainauth.Provider) (domainauth.Principal, error) {
	id := resp.LocalID
	if id == "" {
		id = userIDFromIDToken(resp.IDToken)
	}
	if id == "" {
		return domainauth.Principal{}, errors.New("response carries no user id")
	}

	now := c.platform.now().UTC()
	pr := domainauth.Principal{
		ID:        id,
		Anonymous: provider == domainauth.ProviderAnonymous,
		Provider:  provider,
		CreatedAt: now,
	}
	if secs, err := strconv.Atoi(resp.ExpiresIn); err == nil && secs > 0 {
		pr.ExpiresAt = now.Add(time.Duration(secs) * time.Second)
	}
	return pr, nil
}

// userIDFromIDToken reads the user_id or sub claim without verifying the
// signature; the token was just issued to us over TLS by the platform.
func userIDFromIDToken(raw string) string {
	if raw == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return ""
	}
	if uid, ok := claims["user_id"].(string); ok && uid != "" {
		return uid
	}
	sub, _ := claims.GetSubject()
	return sub
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	endpoint := c.baseURL + path + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.platform.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.DebugContext(ctx, "close response body failed", "error", cerr)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.logger.DebugContext(ctx, "identity toolkit call",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var er errorResponse
		if json.Unmarshal(data, &er) == nil && er.Error.Message != "" {
			apiErr.Code = er.Error.Code
			apiErr.Message = er.Error.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
