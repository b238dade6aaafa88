package repository

import (
	"context"

	"github.com/slotjack/wheelhouse/internal/domain"
)

// UpdateFn mutates a user's wheel state in place and optionally returns a
// spin result to append to the history. Returning an error aborts the
// update without persisting anything.
type UpdateFn func(state *domain.UserWheelState) (*domain.SpinResult, error)

// WheelState persists per-user spin state.
//
// Load returns the default (never-spun) state when no record exists; a
// missing row is not an error. Update runs fn against the current state
// under per-user mutual exclusion: no other Update for the same user may
// interleave between the read and the write. Implementations must surface
// storage failures wrapped in domain.ErrDatabaseError so callers can tell
// "not eligible" from "couldn't save".
type WheelState interface {
	Load(ctx context.Context, userID string) (*domain.UserWheelState, error)
	Update(ctx context.Context, userID string, fn UpdateFn) (*domain.UserWheelState, error)
}
