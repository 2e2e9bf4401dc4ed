package store

import (
	"sync"

	"insuria/pkg/domain"
)

// MemoryStore keeps both collections in-process. Used in tests and as the
// zero-config fallback when no database or data directory is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	claims    []domain.Claim
	documents []domain.Document
}

// NewMemoryStore initializes a store holding the seed documents and an
// empty claims ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{documents: SeedDocuments()}
}

// ListClaims returns a copy of the claims ledger, most recent first.
func (m *MemoryStore) ListClaims() ([]domain.Claim, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Claim, len(m.claims))
	copy(out, m.claims)
	return out, nil
}

// ReplaceClaims swaps in the full ledger.
func (m *MemoryStore) ReplaceClaims(claims []domain.Claim) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claims = make([]domain.Claim, len(claims))
	copy(m.claims, claims)
	return nil
}

// ListDocuments returns a copy of the vault, most recent first.
func (m *MemoryStore) ListDocuments() ([]domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Document, len(m.documents))
	copy(out, m.documents)
	return out, nil
}

// ReplaceDocuments swaps in the full vault.
func (m *MemoryStore) ReplaceDocuments(documents []domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = make([]domain.Document, len(documents))
	copy(m.documents, documents)
	return nil
}
