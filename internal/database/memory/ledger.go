package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/slotjack/wheelhouse/internal/domain"
	"github.com/slotjack/wheelhouse/internal/repository"
)

// LedgerStore is an in-memory implementation of repository.Ledger.
type LedgerStore struct {
	mu       sync.Mutex
	balances map[string]int
	entries  map[string][]domain.LedgerEntry
}

// NewLedgerStore creates an empty in-memory ledger.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		balances: make(map[string]int),
		entries:  make(map[string][]domain.LedgerEntry),
	}
}

var _ repository.Ledger = (*LedgerStore)(nil)

func (s *LedgerStore) Credit(ctx context.Context, userID string, amount int, description string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidCount, amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[userID] += amount
	entry := domain.LedgerEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}
	s.entries[userID] = append([]domain.LedgerEntry{entry}, s.entries[userID]...)

	return nil
}

func (s *LedgerStore) Balance(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[userID], nil
}

func (s *LedgerStore) Entries(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.entries[userID]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]domain.LedgerEntry, len(entries))
	copy(out, entries)
	return out, nil
}
