package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/slotjack/wheelhouse/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}

// hashUserKey creates a consistent positive int64 from a user ID for
// advisory locking. SHA-256 keeps unrelated users from colliding on the
// same lock in practice.
func hashUserKey(userID string) int64 {
	h := sha256.Sum256([]byte(userID))
	return int64(binary.BigEndian.Uint64(h[:8]) & HashMaskPositiveInt64)
}
