package memory

import (
	"context"
	"sync"
	"time"

	"github.com/caretrack/strokeregistry/internal/domain"
)

// SessionStore is the default in-process session table. A single RWMutex
// guards the map so concurrent validate and evict calls cannot lose updates.
// State lives for the process lifetime; use the redis store when sessions
// must survive restarts or be shared across replicas.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewSessionStore builds an empty in-memory session table.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

func (s *SessionStore) Put(ctx context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (domain.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	return session, ok, nil
}

func (s *SessionStore) Touch(ctx context.Context, token string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil
	}
	session.LastActivityAt = at
	s.sessions[token] = session
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
