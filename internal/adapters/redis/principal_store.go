package redis

// Package redis provides Redis-based adapters for the local identity platform.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/folio/internal/domain/auth"
)

// PrincipalStore is a Redis-based principal store.
// It handles TTL semantics automatically based on principal ExpiresAt.
type PrincipalStore struct {
	client redis.UniversalClient
	prefix string
}

// NewPrincipalStore creates a new Redis-based principal store.
func NewPrincipalStore(client redis.UniversalClient) *PrincipalStore {
	return NewPrincipalStoreWithPrefix(client, "principal:")
}

// NewPrincipalStoreWithPrefix creates a Redis principal store with a custom key prefix.
func NewPrincipalStoreWithPrefix(client redis.UniversalClient, prefix string) *PrincipalStore {
	return &PrincipalStore{
		client: client,
		prefix: prefix,
	}
}

func (s *PrincipalStore) Save(ctx context.Context, p domainauth.Principal) error {
	if p.ID == "" {
		return errors.New("principal ID cannot be empty")
	}

	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 {
		return errors.New("principal is expired")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal principal: %w", err)
	}

	return s.client.Set(ctx, s.prefix+p.ID, data, ttl).Err()
}

func (s *PrincipalStore) Get(ctx context.Context, id string) (domainauth.Principal, error) {
	if id == "" {
		return domainauth.Principal{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Principal{}, ErrNotFound
		}
		return domainauth.Principal{}, fmt.Errorf("redis get: %w", err)
	}

	var p domainauth.Principal
	if unmarshalErr := json.Unmarshal([]byte(data), &p); unmarshalErr != nil {
		return domainauth.Principal{}, fmt.Errorf("unmarshal principal: %w", unmarshalErr)
	}

	// Redis TTL normally removes expired keys first.
	if time.Now().After(p.ExpiresAt) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Principal{}, fmt.Errorf("cleanup expired principal: %w", deleteErr)
		}
		return domainauth.Principal{}, ErrNotFound
	}

	return p, nil
}

func (s *PrincipalStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// ErrNotFound is returned when a principal is not found.
var ErrNotFound = errors.New("principal not found")
