package app

import (
	"fmt"

	"insuria/pkg/domain"
)

// ClaimInput carries the caller-supplied claim fields; everything else is
// synthesized at creation.
type ClaimInput struct {
	Vehicle  string
	Incident string
	Estimate string
	Parts    []domain.PartCost
}

// AddClaim creates a claim with a creation-time id, a random 3-digit
// display number (collisions unchecked, display only), the creation
// timestamp, and status "submitted", then prepends it to the ledger and
// writes the ledger back. The new claim is returned.
func (a *App) AddClaim(input ClaimInput) (domain.Claim, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	claim := domain.Claim{
		ID:          a.nextRecordID(),
		ClaimNumber: 100 + a.randInt(900),
		Date:        a.now().Format("1/2/2006, 3:04:05 PM"),
		Status:      domain.ClaimSubmitted,
		Vehicle:     input.Vehicle,
		Incident:    input.Incident,
		Estimate:    input.Estimate,
		Parts:       input.Parts,
	}

	next := make([]domain.Claim, 0, len(a.claims)+1)
	next = append(next, claim)
	next = append(next, a.claims...)
	if err := a.store.ReplaceClaims(next); err != nil {
		return domain.Claim{}, fmt.Errorf("persist claims: %w", err)
	}
	a.claims = next
	return claim, nil
}

// Claims returns the ledger, most recent first.
func (a *App) Claims() []domain.Claim {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Claim, len(a.claims))
	copy(out, a.claims)
	return out
}

// ActiveClaim returns the most recently created claim, if any. There is no
// other selection policy.
func (a *App) ActiveClaim() (domain.Claim, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if len(a.claims) == 0 {
		return domain.Claim{}, false
	}
	return a.claims[0], true
}
