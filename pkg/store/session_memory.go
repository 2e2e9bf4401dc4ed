package store

import (
	"sync"

	"insuria/internal/util"
)

// MemorySessionStore keeps session markers in-process. Used in tests.
type MemorySessionStore struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

// NewMemorySessionStore initializes an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{tokens: make(map[string]struct{})}
}

// NewSession issues a fresh token.
func (m *MemorySessionStore) NewSession() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := util.NewID()
	m.tokens[token] = struct{}{}
	return token, nil
}

// Valid reports whether the token was issued and not deleted.
func (m *MemorySessionStore) Valid(token string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tokens[token]
	return ok, nil
}

// Delete revokes the token.
func (m *MemorySessionStore) Delete(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}
