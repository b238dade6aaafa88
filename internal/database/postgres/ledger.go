package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotjack/wheelhouse/internal/domain"
	"github.com/slotjack/wheelhouse/internal/repository"
)

// LedgerStore implements repository.Ledger backed by PostgreSQL.
type LedgerStore struct {
	db *pgxpool.Pool
}

// NewLedgerStore creates a ledger store.
func NewLedgerStore(db *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{db: db}
}

var _ repository.Ledger = (*LedgerStore)(nil)

// Credit appends an entry and bumps the account balance in one transaction.
func (s *LedgerStore) Credit(ctx context.Context, userID string, amount int, description string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidCount, amount)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgBeginTransactionFailed, err)
	}
	defer SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx, SQLInsertLedgerEntry, uuid.NewString(), userID, amount, description); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgCreditFailed, err)
	}

	if _, err := tx.Exec(ctx, SQLUpsertLedgerBalance, userID, amount); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgCreditFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgCommitTransactionFailed, err)
	}

	return nil
}

// Balance returns the user's balance; unknown users have zero.
func (s *LedgerStore) Balance(ctx context.Context, userID string) (int, error) {
	var balance int
	err := s.db.QueryRow(ctx, SQLSelectLedgerBalance, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgLoadBalanceFailed, err)
	}
	return balance, nil
}

// Entries returns the user's most recent ledger entries, newest first.
func (s *LedgerStore) Entries(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	rows, err := s.db.Query(ctx, SQLSelectLedgerEntries, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgLoadEntriesFailed, err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		entry := domain.LedgerEntry{UserID: userID}
		if err := rows.Scan(&entry.ID, &entry.Amount, &entry.Description, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgLoadEntriesFailed, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgLoadEntriesFailed, err)
	}

	return entries, nil
}
