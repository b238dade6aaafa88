package wheel

import "time"

const (
	// SpinCooldownDuration is the fixed window between free spins.
	// Exactly 24 wall-clock hours; no timezone adjustment.
	SpinCooldownDuration = 24 * time.Hour

	// DefaultHistoryLimit bounds the per-user spin history when no limit
	// is configured.
	DefaultHistoryLimit = 20

	// CurrencyUnit is the display unit used in ledger descriptions.
	CurrencyUnit = "coins"
)

// Error message constants
const (
	ErrMsgLoadStateFailed   = "failed to load wheel state: %w"
	ErrMsgUpdateStateFailed = "failed to update wheel state: %w"
	ErrMsgReadConfigFailed  = "failed to read wheel config: %w"
	ErrMsgParseConfigFailed = "failed to parse wheel config: %w"
)

// Log message constants
const (
	LogMsgSpinCompleted  = "Wheel spin completed"
	LogMsgSpinRefused    = "Wheel spin refused"
	LogMsgCreditsGranted = "Bonus credits granted"
	LogMsgCooldownReset  = "Wheel cooldown reset"
)

// Refusal reason labels for metrics
const (
	RefusalReasonCooldown  = "cooldown"
	RefusalReasonNoCredits = "no_credits"
)
