package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Wheel errors
	ErrMsgSegmentNotFound = "segment not found"
	ErrMsgNoBonusCredits  = "no bonus credits available"
	ErrMsgInvalidCount    = "count must be positive"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgDatabaseError   = "database error"
	ErrMsgVersionConflict = "state version conflict"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Wheel errors
	ErrSegmentNotFound = errors.New(ErrMsgSegmentNotFound)
	ErrNoBonusCredits  = errors.New(ErrMsgNoBonusCredits)
	ErrInvalidCount    = errors.New(ErrMsgInvalidCount)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Database/System errors
	// ErrDatabaseError distinguishes "we couldn't save your spin" from
	// business-rule refusals; callers surface it as a retryable failure.
	ErrDatabaseError   = errors.New(ErrMsgDatabaseError)
	ErrVersionConflict = errors.New(ErrMsgVersionConflict)
)
