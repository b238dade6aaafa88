package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest    = "Invalid request body"
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgMissingUserID     = "user_id is required"

	ErrMsgSpinFailed        = "Failed to process spin"
	ErrMsgEligibilityFailed = "Failed to check eligibility"
	ErrMsgHistoryFailed     = "Failed to retrieve spin history"
	ErrMsgGrantFailed       = "Failed to grant credits"
	ErrMsgResetFailed       = "Failed to reset cooldown"
	ErrMsgBalanceFailed     = "Failed to retrieve balance"
)

// Success messages for API responses
const (
	MsgCreditsGrantedSuccess = "Credits granted successfully"
	MsgCooldownResetSuccess  = "Cooldown reset successfully"
)
