// Package memory provides in-process adapters used when Redis is not configured.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/target/folio/internal/domain/auth"
)

// ErrNotFound is returned when a principal is not stored or has expired.
var ErrNotFound = errors.New("principal not found")

// sweepInterval bounds how often Save scans for expired principals.
const sweepInterval = time.Minute

// PrincipalStore keeps principals in a map until their ExpiresAt. Expired
// entries are dropped by Get and by a sweep that Save runs at most once per
// sweepInterval.
type PrincipalStore struct {
	mu         sync.Mutex
	principals map[string]domainauth.Principal
	now        func() time.Time
	nextSweep  time.Time
}

// NewPrincipalStore creates an empty store. now defaults to time.Now.
func NewPrincipalStore(now func() time.Time) *PrincipalStore {
	if now == nil {
		now = time.Now
	}
	return &PrincipalStore{principals: make(map[string]domainauth.Principal), now: now}
}

func (s *PrincipalStore) Save(_ context.Context, p domainauth.Principal) error {
	if p.ID == "" {
		return errors.New("principal ID cannot be empty")
	}
	now := s.now()
	if !p.ExpiresAt.After(now) {
		return errors.New("principal is expired")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !now.Before(s.nextSweep) {
		s.sweepLocked(now)
		s.nextSweep = now.Add(sweepInterval)
	}
	s.principals[p.ID] = p
	return nil
}

func (s *PrincipalStore) sweepLocked(now time.Time) {
	for id, p := range s.principals {
		if !p.ExpiresAt.After(now) {
			delete(s.principals, id)
		}
	}
}

// Len returns the number of stored principals, expired or not.
func (s *PrincipalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.principals)
}

func (s *PrincipalStore) Get(_ context.Context, id string) (domainauth.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.principals[id]
	if !ok {
		return domainauth.Principal{}, ErrNotFound
	}
	if !p.ExpiresAt.After(s.now()) {
		delete(s.principals, id)
		return domainauth.Principal{}, ErrNotFound
	}
	return p, nil
}

func (s *PrincipalStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.principals, id)
	return nil
}

// TokenLedger remembers redeemed token ids until their ttl elapses.
type TokenLedger struct {
	mu       sync.Mutex
	redeemed map[string]time.Time
	now      func() time.Time
}

// NewTokenLedger creates an empty ledger. now defaults to time.Now.
func NewTokenLedger(now func() time.Time) *TokenLedger {
	if now == nil {
		now = time.Now
	}
	return &TokenLedger{redeemed: make(map[string]time.Time), now: now}
}

// Redeem records tokenID; it returns false when tokenID is already recorded and unexpired.
func (l *TokenLedger) Redeem(_ context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if tokenID == "" {
		return false, errors.New("token ID cannot be empty")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)
	if _, seen := l.redeemed[tokenID]; seen {
		return false, nil
	}
	l.redeemed[tokenID] = now.Add(ttl)
	return true, nil
}

func (l *TokenLedger) pruneLocked(now time.Time) {
	for id, until := range l.redeemed {
		if !until.After(now) {
			delete(l.redeemed, id)
		}
	}
}
