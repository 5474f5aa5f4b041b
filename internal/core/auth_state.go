// Package core provides shared building blocks for identity platform adapters.
package core

import (
	"sort"
	"sync"

	domainauth "github.com/target/folio/internal/domain/auth"
	"github.com/target/folio/internal/ports"
)

// AuthState tracks the current principal of one identity client and fans
// auth-state changes out to registered listeners.
// The zero value is ready to use and safe for concurrent use.
type AuthState struct {
	mu        sync.Mutex
	current   *domainauth.Principal
	version   uint64
	listeners map[uint64]*subscriber
	nextID    uint64
	pending   sync.WaitGroup
}

// subscriber serializes deliveries to one listener and drops any
// notification older than the last one it delivered.
type subscriber struct {
	mu        sync.Mutex
	listener  ports.AuthStateListener
	delivered bool
	last      uint64
}

func (s *subscriber) deliver(version uint64, p *domainauth.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delivered && version <= s.last {
		return
	}
	s.delivered = true
	s.last = version
	s.listener(p)
}

// Current returns a copy of the current principal, or nil when signed out.
func (s *AuthState) Current() *domainauth.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePrincipal(s.current)
}

// Subscribe registers l. The current principal is delivered to l asynchronously
// once after registration; later changes are delivered synchronously by Set.
// The initial delivery is skipped when a newer Set reached l first, so l never
// sees a principal older than one it was already given. l must not call Set.
// The returned function unregisters l and may be called any number of times.
func (s *AuthState) Subscribe(l ports.AuthStateListener) func() {
	sub := &subscriber{listener: l}

	s.mu.Lock()
	if s.listeners == nil {
		s.listeners = make(map[uint64]*subscriber)
	}
	s.nextID++
	id := s.nextID
	s.listeners[id] = sub
	s.pending.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.pending.Done()
		s.mu.Lock()
		_, live := s.listeners[id]
		version := s.version
		cur := clonePrincipal(s.current)
		s.mu.Unlock()
		if live {
			sub.deliver(version, cur)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Set replaces the current principal and notifies listeners in registration order.
// Listeners run on the caller's goroutine without the state lock held.
func (s *AuthState) Set(p *domainauth.Principal) {
	s.mu.Lock()
	s.current = clonePrincipal(p)
	s.version++
	version := s.version
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	targets := make([]*subscriber, 0, len(ids))
	for _, id := range ids {
		targets = append(targets, s.listeners[id])
	}
	s.mu.Unlock()

	for _, sub := range targets {
		sub.deliver(version, clonePrincipal(p))
	}
}

// ListenerCount returns the number of registered listeners.
func (s *AuthState) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// waitInitial blocks until every pending initial delivery has run or been skipped.
func (s *AuthState) waitInitial() {
	s.pending.Wait()
}

func clonePrincipal(p *domainauth.Principal) *domainauth.Principal {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
