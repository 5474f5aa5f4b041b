package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenLedger records redeemed one-time token ids with SET NX so that
// every replica of the service agrees on which tokens are spent.
type TokenLedger struct {
	client redis.UniversalClient
	prefix string
}

// NewTokenLedger creates a ledger whose keys start with prefix.
func NewTokenLedger(client redis.UniversalClient, prefix string) *TokenLedger {
	if prefix == "" {
		prefix = "redeemed:"
	}
	return &TokenLedger{client: client, prefix: prefix}
}

// Redeem returns true the first time tokenID is seen within ttl.
func (l *TokenLedger) Redeem(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if tokenID == "" {
		return false, errors.New("token ID cannot be empty")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	ok, err := l.client.SetNX(ctx, l.prefix+tokenID, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}
