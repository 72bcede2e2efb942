// Package memory is an in-process credential store for development and tests.
// Sessions do not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/salvaclients/vet-admin/internal/core/domain"
)

type CredentialStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{sessions: make(map[string]domain.Session)}
}

func (s *CredentialStore) Save(_ context.Context, sid string, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = session
	return nil
}

func (s *CredentialStore) Load(_ context.Context, sid string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sid]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return &session, nil
}

func (s *CredentialStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

// Ping always succeeds.
func (s *CredentialStore) Ping(context.Context) error { return nil }

// Len returns the number of stored sessions.
func (s *CredentialStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
