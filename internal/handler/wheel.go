package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/slotjack/wheelhouse/internal/domain"
	"github.com/slotjack/wheelhouse/internal/ledger"
	"github.com/slotjack/wheelhouse/internal/logger"
	"github.com/slotjack/wheelhouse/internal/wheel"
)

// WheelHandler handles wheel-related HTTP requests
type WheelHandler struct {
	service   wheel.Service
	ledgerSvc ledger.Service
}

// NewWheelHandler creates a new wheel handler
func NewWheelHandler(service wheel.Service, ledgerSvc ledger.Service) *WheelHandler {
	return &WheelHandler{
		service:   service,
		ledgerSvc: ledgerSvc,
	}
}

// SpinRequest represents a request to spin the wheel
type SpinRequest struct {
	UserID        string `json:"user_id" validate:"required"`
	UsePaidCredit bool   `json:"use_paid_credit"`
}

// SpinResponse carries the result plus the refreshed countdown so the
// client can render the wheel and the timer from one response.
type SpinResponse struct {
	Result      *domain.SpinResult  `json:"result"`
	Eligibility *domain.Eligibility `json:"eligibility,omitempty"`
}

// HandleSpin processes a spin request
func (h *WheelHandler) HandleSpin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req SpinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
		return
	}

	result, err := h.service.Spin(ctx, req.UserID, req.UsePaidCredit)
	if err != nil {
		if !wheel.IsRefusal(err) {
			log.Error("Failed to spin wheel", "error", err, "user_id", req.UserID)
		}
		status, resp := mapServiceError(err)
		respondJSON(w, status, resp)
		return
	}

	resp := SpinResponse{Result: result}
	if el, err := h.service.Eligibility(ctx, req.UserID); err == nil {
		resp.Eligibility = el
	}

	respondJSON(w, http.StatusOK, resp)
}

// HandleEligibility reports whether the user can spin and the remaining
// cooldown otherwise
func (h *WheelHandler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingUserID)
		return
	}

	el, err := h.service.Eligibility(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to check eligibility", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, ErrMsgEligibilityFailed)
		return
	}

	respondJSON(w, http.StatusOK, el)
}

// HistoryResponse wraps the user's recent spins
type HistoryResponse struct {
	Spins []domain.SpinResult `json:"spins"`
}

// HandleHistory returns the user's recent spins, newest first
func (h *WheelHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingUserID)
		return
	}

	spins, err := h.service.History(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to get history", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, ErrMsgHistoryFailed)
		return
	}

	if spins == nil {
		spins = []domain.SpinResult{}
	}
	respondJSON(w, http.StatusOK, HistoryResponse{Spins: spins})
}

// SegmentsResponse lists the wheel catalog
type SegmentsResponse struct {
	Segments []domain.WheelSegment `json:"segments"`
}

// HandleSegments returns the wheel catalog for presentation
func (h *WheelHandler) HandleSegments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SegmentsResponse{Segments: h.service.Segments()})
}

// GrantCreditsRequest represents a bonus-credit grant, typically called by
// the payment-completion webhook after a verified purchase. Idempotency is
// the caller's responsibility.
type GrantCreditsRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Count  int    `json:"count" validate:"required,min=1,max=100"`
}

// GrantCreditsResponse reports the user's new credit total
type GrantCreditsResponse struct {
	Message string `json:"message"`
	Total   int    `json:"total"`
}

// HandleGrantCredits adds pre-paid spins to a user
func (h *WheelHandler) HandleGrantCredits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req GrantCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
		return
	}

	total, err := h.service.GrantBonusCredits(ctx, req.UserID, req.Count)
	if err != nil {
		log.Error("Failed to grant credits", "error", err, "user_id", req.UserID)
		status, resp := mapServiceError(err)
		respondJSON(w, status, resp)
		return
	}

	respondJSON(w, http.StatusOK, GrantCreditsResponse{
		Message: MsgCreditsGrantedSuccess,
		Total:   total,
	})
}

// ResetCooldownRequest identifies the user whose cooldown to clear
type ResetCooldownRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// HandleResetCooldown clears a user's free-spin cooldown (admin/testing)
func (h *WheelHandler) HandleResetCooldown(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ResetCooldownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
		return
	}

	if err := h.service.ResetCooldown(ctx, req.UserID); err != nil {
		logger.FromContext(ctx).Error("Failed to reset cooldown", "error", err, "user_id", req.UserID)
		respondError(w, http.StatusInternalServerError, ErrMsgResetFailed)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgCooldownResetSuccess})
}

// BalanceResponse reports a user's coin balance
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int    `json:"balance"`
}

// HandleBalance returns the user's ledger balance
func (h *WheelHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingUserID)
		return
	}

	balance, err := h.ledgerSvc.Balance(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to get balance", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, ErrMsgBalanceFailed)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
}

// EntriesResponse wraps a user's recent ledger entries
type EntriesResponse struct {
	Entries []domain.LedgerEntry `json:"entries"`
}

// HandleLedgerEntries returns the user's recent balance changes
func (h *WheelHandler) HandleLedgerEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, ErrMsgMissingUserID)
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	entries, err := h.ledgerSvc.Entries(ctx, userID, limit)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to get ledger entries", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, ErrMsgBalanceFailed)
		return
	}

	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	respondJSON(w, http.StatusOK, EntriesResponse{Entries: entries})
}
