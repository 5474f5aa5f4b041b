package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/target/folio/internal/adapters/customtoken"
)

const defaultTokenTTL = 15 * time.Minute

type mintOptions struct {
	UID string
	TTL time.Duration
}

func parseMintFlags(args []string, stderr io.Writer) (mintOptions, error) {
	var opts mintOptions
	fs := flag.NewFlagSet("mint-token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.UID, "uid", "", "principal id the token signs in as (required)")
	fs.DurationVar(&opts.TTL, "ttl", defaultTokenTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.UID = strings.TrimSpace(opts.UID)
	if opts.UID == "" {
		return opts, errors.New("-uid is required")
	}
	if opts.TTL <= 0 {
		return opts, errors.New("-ttl must be positive")
	}
	return opts, nil
}

func runMintToken(cmdCtx *commandContext, args []string) error {
	opts, err := parseMintFlags(args, io.Discard)
	if err != nil {
		return err
	}
	local := cmdCtx.Config.Identity.Local
	if local.TokenSecret == "" {
		return errors.New("LOCAL_IDENTITY_TOKEN_SECRET is not set")
	}

	token, err := customtoken.Mint(customtoken.MintInput{
		Secret: local.TokenSecret,
		Issuer: local.TokenIssuer,
		UID:    opts.UID,
		TTL:    opts.TTL,
	})
	if err != nil {
		return fmt.Errorf("mint token: %w", err)
	}
	return writef(cmdCtx.Out, "%s\n", token)
}

func runVerifyToken(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("verify-token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	raw := fs.String("token", "", "token to verify (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*raw) == "" {
		return errors.New("-token is required")
	}

	local := cmdCtx.Config.Identity.Local
	v, err := customtoken.NewVerifier(customtoken.VerifierOptions{Secret: local.TokenSecret, Issuer: local.TokenIssuer})
	if err != nil {
		return fmt.Errorf("custom token verifier: %w", err)
	}
	claims, err := v.Verify(cmdCtx.Ctx, strings.TrimSpace(*raw))
	if err != nil {
		return err
	}
	return writef(cmdCtx.Out, "subject=%s token_id=%s expires_at=%s\n",
		claims.Subject, claims.TokenID, claims.ExpiresAt.UTC().Format(time.RFC3339))
}
