package postgres

// Hash Constants
const (
	// HashMaskPositiveInt64 masks the MSB so advisory lock keys are always
	// positive int64 values, which PostgreSQL expects.
	HashMaskPositiveInt64 = 0x7FFFFFFFFFFFFFFF
)

// SQL Query Constants
const (
	// SQLAdvisoryLock acquires a PostgreSQL advisory transaction lock
	SQLAdvisoryLock = "SELECT pg_advisory_xact_lock($1)"

	SQLSelectWheelState = `
		SELECT last_spun_at, bonus_credits, version
		FROM wheel_states
		WHERE user_id = $1
	`

	SQLInsertWheelState = `
		INSERT INTO wheel_states (user_id, last_spun_at, bonus_credits, version, updated_at)
		VALUES ($1, $2, $3, 1, NOW())
	`

	// SQLUpdateWheelState is the optimistic write: the version predicate
	// refuses the update when another writer got there first.
	SQLUpdateWheelState = `
		UPDATE wheel_states
		SET last_spun_at = $2, bonus_credits = $3, version = version + 1, updated_at = NOW()
		WHERE user_id = $1 AND version = $4
	`

	SQLSelectSpinHistory = `
		SELECT id, segment_id, reward, label, paid, created_at
		FROM wheel_spins
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	SQLInsertSpin = `
		INSERT INTO wheel_spins (id, user_id, segment_id, reward, label, paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	// SQLTrimSpinHistory evicts rows beyond the bounded history length.
	SQLTrimSpinHistory = `
		DELETE FROM wheel_spins
		WHERE user_id = $1
		AND id NOT IN (
			SELECT id FROM wheel_spins
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		)
	`

	SQLInsertLedgerEntry = `
		INSERT INTO ledger_entries (id, user_id, amount, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	SQLUpsertLedgerBalance = `
		INSERT INTO ledger_accounts (user_id, balance, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET balance = ledger_accounts.balance + EXCLUDED.balance, updated_at = NOW()
	`

	SQLSelectLedgerBalance = `SELECT balance FROM ledger_accounts WHERE user_id = $1`

	SQLSelectLedgerEntries = `
		SELECT id, amount, description, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
)

// Error Message Constants
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction"
	ErrMsgAcquireLockFailed       = "failed to acquire advisory lock"
	ErrMsgLoadStateFailed         = "failed to load wheel state"
	ErrMsgLoadHistoryFailed       = "failed to load spin history"
	ErrMsgSaveStateFailed         = "failed to save wheel state"
	ErrMsgInsertSpinFailed        = "failed to insert spin record"
	ErrMsgTrimHistoryFailed       = "failed to trim spin history"
	ErrMsgCommitTransactionFailed = "failed to commit transaction"
	ErrMsgCreditFailed            = "failed to credit ledger"
	ErrMsgLoadBalanceFailed       = "failed to load balance"
	ErrMsgLoadEntriesFailed       = "failed to load ledger entries"
)
