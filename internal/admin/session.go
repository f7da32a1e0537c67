package admin

import (
	"sync"

	"github.com/google/uuid"
)

// SessionStore tracks live admin bearer tokens. Admin sessions are
// process-local and die with it.
type SessionStore interface {
	Add(token string)
	Has(token string) bool
	Remove(token string)
}

type MemorySessionStore struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{tokens: make(map[string]struct{})}
}

func (s *MemorySessionStore) Add(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = struct{}{}
}

func (s *MemorySessionStore) Has(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

func (s *MemorySessionStore) Remove(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func newToken() string {
	return uuid.NewString()
}
