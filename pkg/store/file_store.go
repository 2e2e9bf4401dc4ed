package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"insuria/pkg/domain"
)

const (
	claimsCollection    = "claims"
	documentsCollection = "documents"
)

// FileStore persists each collection as a JSON file under a base directory.
// Every mutation rewrites the whole file; reads load the whole file. A
// malformed file is an error at load, never silently reset.
type FileStore struct {
	mu       sync.Mutex
	basePath string
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("record store base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create record store dir: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// ListClaims loads the claims collection; a missing file is an empty ledger.
func (f *FileStore) ListClaims() ([]domain.Claim, error) {
	var claims []domain.Claim
	ok, err := f.load(claimsCollection, &claims)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.Claim{}, nil
	}
	return claims, nil
}

// ReplaceClaims writes the full ledger back.
func (f *FileStore) ReplaceClaims(claims []domain.Claim) error {
	return f.save(claimsCollection, claims)
}

// ListDocuments loads the vault; a missing file yields the seed documents.
func (f *FileStore) ListDocuments() ([]domain.Document, error) {
	var documents []domain.Document
	ok, err := f.load(documentsCollection, &documents)
	if err != nil {
		return nil, err
	}
	if !ok {
		return SeedDocuments(), nil
	}
	return documents, nil
}

// ReplaceDocuments writes the full vault back.
func (f *FileStore) ReplaceDocuments(documents []domain.Document) error {
	return f.save(documentsCollection, documents)
}

func (f *FileStore) load(collection string, out any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path(collection))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", collection, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", collection, err)
	}
	return true, nil
}

func (f *FileStore) save(collection string, records any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	tmp := f.path(collection) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	if err := os.Rename(tmp, f.path(collection)); err != nil {
		return fmt.Errorf("replace %s: %w", collection, err)
	}
	return nil
}

func (f *FileStore) path(collection string) string {
	return filepath.Join(f.basePath, collection+".json")
}
