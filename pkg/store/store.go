package store

import "insuria/pkg/domain"

// RecordStore persists the two named collections backing the dashboard:
// the claims ledger and the document vault. Collections are read whole and
// written back whole on every mutation; the in-memory copy held by the app
// is the working state and the last writer wins.
type RecordStore interface {
	// claims
	ListClaims() ([]domain.Claim, error)
	ReplaceClaims([]domain.Claim) error

	// documents
	ListDocuments() ([]domain.Document, error)
	ReplaceDocuments([]domain.Document) error
}

// SessionStore tracks the signed-in marker. A token's presence is the whole
// gate; there is no user identity behind it.
type SessionStore interface {
	NewSession() (string, error)
	Valid(token string) (bool, error)
	Delete(token string) error
}

// SeedDocuments returns the pre-populated vault entries shown to a fresh
// install, standing in for documents verified before the app existed.
func SeedDocuments() []domain.Document {
	return []domain.Document{
		{ID: 1, Name: "Driver's License", Type: "Identification", Date: "Oct 24, 2025", Status: domain.DocumentVerified},
		{ID: 2, Name: "Vehicle Registration (Lagos)", Type: "Vehicle Paper", Date: "Jan 10, 2026", Status: domain.DocumentVerified},
		{ID: 3, Name: "Insurance Certificate", Type: "Policy", Date: "Dec 01, 2025", Status: domain.DocumentVerified},
	}
}
