package repository

import (
	"context"

	"github.com/slotjack/wheelhouse/internal/domain"
)

// Ledger records balance-affecting entries for users. The wheel engine never
// writes here directly; the spin event handler credits rewards after a spin
// has been durably recorded.
type Ledger interface {
	// Credit adds amount to the user's balance and appends an auditable
	// entry with the given description. Amount must be positive.
	Credit(ctx context.Context, userID string, amount int, description string) error

	// Balance returns the user's current balance; zero for unknown users.
	Balance(ctx context.Context, userID string) (int, error)

	// Entries returns the most recent ledger entries for a user, newest
	// first, capped at limit.
	Entries(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error)
}
