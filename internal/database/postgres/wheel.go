package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotjack/wheelhouse/internal/domain"
	"github.com/slotjack/wheelhouse/internal/repository"
)

// WheelStore implements repository.WheelState backed by PostgreSQL.
//
// Per-user serializability uses two mechanisms: an advisory transaction
// lock keyed on the hashed user ID serializes Update calls within and
// across processes (it works even before a state row exists, unlike
// SELECT FOR UPDATE), and the version column refuses the write if some
// non-advisory writer slipped in anyway.
type WheelStore struct {
	db           *pgxpool.Pool
	historyLimit int
}

// NewWheelStore creates a wheel state store.
func NewWheelStore(db *pgxpool.Pool, historyLimit int) *WheelStore {
	return &WheelStore{db: db, historyLimit: historyLimit}
}

var _ repository.WheelState = (*WheelStore)(nil)

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Load returns the user's state, or the default never-spun state when no
// row exists (lazy materialization, not an error).
func (s *WheelStore) Load(ctx context.Context, userID string) (*domain.UserWheelState, error) {
	return s.load(ctx, s.db, userID)
}

func (s *WheelStore) load(ctx context.Context, q queryer, userID string) (*domain.UserWheelState, error) {
	state := domain.NewUserWheelState(userID)

	var lastSpunAt *time.Time
	err := q.QueryRow(ctx, SQLSelectWheelState, userID).Scan(&lastSpunAt, &state.BonusCredits, &state.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return state, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgLoadStateFailed, err)
	}
	state.LastSpunAt = lastSpunAt

	history, err := s.loadHistory(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	state.History = history

	return state, nil
}

func (s *WheelStore) loadHistory(ctx context.Context, q queryer, userID string) ([]domain.SpinResult, error) {
	rows, err := q.Query(ctx, SQLSelectSpinHistory, userID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgLoadHistoryFailed, err)
	}
	defer rows.Close()

	var history []domain.SpinResult
	for rows.Next() {
		result := domain.SpinResult{UserID: userID}
		if err := rows.Scan(&result.ID, &result.SegmentID, &result.Reward, &result.Label, &result.Paid, &result.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgLoadHistoryFailed, err)
		}
		history = append(history, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgLoadHistoryFailed, err)
	}

	return history, nil
}

// Update runs fn against the current state inside a transaction holding the
// user's advisory lock, then persists the mutated state. Errors returned by
// fn (business refusals included) abort the transaction and pass through
// unchanged; storage failures come back wrapped in domain.ErrDatabaseError.
func (s *WheelStore) Update(ctx context.Context, userID string, fn repository.UpdateFn) (*domain.UserWheelState, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgBeginTransactionFailed, err)
	}
	defer SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx, SQLAdvisoryLock, hashUserKey(userID)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgAcquireLockFailed, err)
	}

	state, err := s.load(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	result, err := fn(state)
	if err != nil {
		return nil, err
	}

	if err := s.saveState(ctx, tx, state); err != nil {
		return nil, err
	}

	if result != nil {
		if _, err := tx.Exec(ctx, SQLInsertSpin,
			result.ID, result.UserID, result.SegmentID, result.Reward, result.Label, result.Paid, result.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgInsertSpinFailed, err)
		}
		if _, err := tx.Exec(ctx, SQLTrimSpinHistory, userID, s.historyLimit); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgTrimHistoryFailed, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgCommitTransactionFailed, err)
	}

	state.Version++
	return state, nil
}

func (s *WheelStore) saveState(ctx context.Context, tx pgx.Tx, state *domain.UserWheelState) error {
	if state.Version == 0 {
		// First write for this user. The advisory lock makes a duplicate
		// insert impossible, so a plain INSERT is safe here.
		if _, err := tx.Exec(ctx, SQLInsertWheelState, state.UserID, state.LastSpunAt, state.BonusCredits); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgSaveStateFailed, err)
		}
		return nil
	}

	tag, err := tx.Exec(ctx, SQLUpdateWheelState, state.UserID, state.LastSpunAt, state.BonusCredits, state.Version)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, ErrMsgSaveStateFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrVersionConflict, state.UserID)
	}

	return nil
}
