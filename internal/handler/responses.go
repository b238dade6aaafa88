package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/slotjack/wheelhouse/internal/domain"
	"github.com/slotjack/wheelhouse/internal/wheel"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`

	// RetryAfterSec is set on cooldown refusals so clients can render a
	// countdown without a second request.
	RetryAfterSec int64 `json:"retry_after_seconds,omitempty"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgStorageError       = "We couldn't save your spin. Please try again."
	ErrMsgNoCreditsError     = "No bonus spins left. Purchase more to keep spinning."
	ErrMsgInvalidCountError  = "Credit count must be a positive number"
	ErrMsgUserNotFoundError  = "User not found"
)

// mapServiceError maps domain errors to user-friendly HTTP responses.
// Refusals get their own statuses so clients can branch: 429 for the
// cooldown (deterministic, not rate limiting in the usual sense, but the
// semantics fit), 402-ish 400 for missing credits, 500 for storage.
func mapServiceError(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgUnknownError}
	}

	var notEligible wheel.ErrNotEligible
	if errors.As(err, &notEligible) {
		return http.StatusTooManyRequests, ErrorResponse{
			Error:         notEligible.Error(),
			RetryAfterSec: int64(notEligible.Remaining.Seconds()),
		}
	}

	switch {
	case errors.Is(err, domain.ErrNoBonusCredits):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgNoCreditsError}
	case errors.Is(err, domain.ErrInvalidCount):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidCountError}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgUserNotFoundError}
	case errors.Is(err, domain.ErrDatabaseError), errors.Is(err, domain.ErrVersionConflict):
		return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgStorageError}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgGenericServerError}
}
