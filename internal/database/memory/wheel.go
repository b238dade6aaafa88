package memory

import (
	"context"

	"github.com/slotjack/wheelhouse/internal/concurrency"
	"github.com/slotjack/wheelhouse/internal/domain"
	"github.com/slotjack/wheelhouse/internal/repository"
)

// WheelStore is a stateful in-memory implementation of repository.WheelState.
// It backs unit tests and local development; the per-user lock manager gives
// it the same single-writer-per-user guarantee the postgres store gets from
// advisory locks.
type WheelStore struct {
	locks  *concurrency.LockManager
	mu     *concurrency.LockManager // guards the map itself via a single key
	states map[string]*domain.UserWheelState

	// FailLoads / FailUpdates force storage errors for failure-path tests.
	FailLoads   error
	FailUpdates error
}

// NewWheelStore creates an empty in-memory store.
func NewWheelStore() *WheelStore {
	return &WheelStore{
		locks:  concurrency.NewLockManager(),
		mu:     concurrency.NewLockManager(),
		states: make(map[string]*domain.UserWheelState),
	}
}

var _ repository.WheelState = (*WheelStore)(nil)

func (s *WheelStore) Load(ctx context.Context, userID string) (*domain.UserWheelState, error) {
	if s.FailLoads != nil {
		return nil, s.FailLoads
	}

	var snapshot *domain.UserWheelState
	_ = s.mu.WithLock("states", func() error {
		snapshot = copyState(s.getOrDefault(userID))
		return nil
	})
	return snapshot, nil
}

func (s *WheelStore) Update(ctx context.Context, userID string, fn repository.UpdateFn) (*domain.UserWheelState, error) {
	if s.FailUpdates != nil {
		return nil, s.FailUpdates
	}

	var updated *domain.UserWheelState
	err := s.locks.WithLock(userID, func() error {
		var current *domain.UserWheelState
		_ = s.mu.WithLock("states", func() error {
			current = copyState(s.getOrDefault(userID))
			return nil
		})

		if _, err := fn(current); err != nil {
			return err
		}

		current.Version++
		_ = s.mu.WithLock("states", func() error {
			s.states[userID] = current
			return nil
		})
		updated = copyState(current)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *WheelStore) getOrDefault(userID string) *domain.UserWheelState {
	if state, ok := s.states[userID]; ok {
		return state
	}
	return domain.NewUserWheelState(userID)
}

// copyState deep-copies so callers can never mutate stored state outside
// Update.
func copyState(state *domain.UserWheelState) *domain.UserWheelState {
	out := *state
	if state.LastSpunAt != nil {
		ts := *state.LastSpunAt
		out.LastSpunAt = &ts
	}
	out.History = make([]domain.SpinResult, len(state.History))
	copy(out.History, state.History)
	return &out
}
