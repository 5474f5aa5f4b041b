package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/folio/config"
	"github.com/target/folio/internal/adapters/customtoken"
)

func newTestContext(cfg config.AppConfig) (*commandContext, *bytes.Buffer) {
	var out bytes.Buffer
	return &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: cfg,
		Out:    &out,
	}, &out
}

func TestParseMintFlags(t *testing.T) {
	opts, err := parseMintFlags([]string{"-uid", " alice ", "-ttl", "5m"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "alice", opts.UID)
	assert.Equal(t, 5*time.Minute, opts.TTL)

	opts, err = parseMintFlags([]string{"-uid", "bob"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, defaultTokenTTL, opts.TTL)

	_, err = parseMintFlags(nil, io.Discard)
	require.Error(t, err)

	_, err = parseMintFlags([]string{"-uid", "bob", "-ttl", "-1m"}, io.Discard)
	require.Error(t, err)
}

func TestMintThenVerify(t *testing.T) {
	cfg := config.AppConfig{}
	cfg.Identity.Local.TokenSecret = "admin-secret"
	cfg.Identity.Local.TokenIssuer = "folio"
	cmdCtx, out := newTestContext(cfg)

	require.NoError(t, runMintToken(cmdCtx, []string{"-uid", "alice"}))
	token := strings.TrimSpace(out.String())
	require.NotEmpty(t, token)

	v, err := customtoken.NewVerifier(customtoken.VerifierOptions{Secret: "admin-secret", Issuer: "folio"})
	require.NoError(t, err)
	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)

	out.Reset()
	require.NoError(t, runVerifyToken(cmdCtx, []string{"-token", token}))
	assert.Contains(t, out.String(), "subject=alice")
	assert.Contains(t, out.String(), "token_id="+claims.TokenID)
}

func TestMintToken_RequiresSecret(t *testing.T) {
	cmdCtx, _ := newTestContext(config.AppConfig{})
	err := runMintToken(cmdCtx, []string{"-uid", "alice"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCAL_IDENTITY_TOKEN_SECRET")
}

func TestVerifyToken_RejectsForeignToken(t *testing.T) {
	token, err := customtoken.Mint(customtoken.MintInput{Secret: "other", Issuer: "folio", UID: "mallory", TTL: time.Minute})
	require.NoError(t, err)

	cfg := config.AppConfig{}
	cfg.Identity.Local.TokenSecret = "admin-secret"
	cmdCtx, _ := newTestContext(cfg)
	require.ErrorIs(t, runVerifyToken(cmdCtx, []string{"-token", token}), customtoken.ErrInvalidToken)
}

func TestPrincipalCommands_RequireRedis(t *testing.T) {
	cmdCtx, _ := newTestContext(config.AppConfig{})
	require.Error(t, runShowPrincipal(cmdCtx, []string{"-id", "p1"}))
	require.Error(t, runDeletePrincipal(cmdCtx, nil))
}

func TestPrintUsageListsCommands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))
	for name := range commands() {
		assert.Contains(t, buf.String(), name)
	}
}
