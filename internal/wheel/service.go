package wheel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slotjack/wheelhouse/internal/domain"
	"github.com/slotjack/wheelhouse/internal/event"
	"github.com/slotjack/wheelhouse/internal/logger"
	"github.com/slotjack/wheelhouse/internal/metrics"
	"github.com/slotjack/wheelhouse/internal/repository"
)

// Service defines the interface for wheel operations
type Service interface {
	// Eligibility reports whether the user may spin now and the remaining
	// cooldown otherwise. Read-only: safe to call repeatedly.
	Eligibility(ctx context.Context, userID string) (*domain.Eligibility, error)

	// Spin performs one draw for the user. usePaidCredit consumes a bonus
	// credit instead of the free daily spin. Refusals come back as
	// ErrNotEligible / ErrNoCredits, storage failures as wrapped
	// domain.ErrDatabaseError.
	Spin(ctx context.Context, userID string, usePaidCredit bool) (*domain.SpinResult, error)

	// GrantBonusCredits adds count pre-paid spins and returns the new
	// total. The caller (payment webhook) owns quantity validation and
	// idempotency.
	GrantBonusCredits(ctx context.Context, userID string, count int) (int, error)

	// History returns the user's recent spins, newest first.
	History(ctx context.Context, userID string) ([]domain.SpinResult, error)

	// ResetCooldown clears the user's free-spin cooldown (admin/testing).
	ResetCooldown(ctx context.Context, userID string) error

	// Segments exposes the wheel catalog for presentation.
	Segments() []domain.WheelSegment
}

type service struct {
	store        repository.WheelState
	table        *Table
	publisher    event.Publisher
	rng          RandFunc         // Injectable for testing
	now          func() time.Time // Injectable for testing; always server clock
	cooldown     time.Duration
	historyLimit int
}

// Option configures optional service dependencies.
type Option func(*service)

// WithRand overrides the randomness source.
func WithRand(rng RandFunc) Option {
	return func(s *service) { s.rng = rng }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithHistoryLimit overrides the bounded history length.
func WithHistoryLimit(limit int) Option {
	return func(s *service) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithCooldown overrides the free-spin window. Staging only; production
// keeps the 24h default.
func WithCooldown(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// NewService creates a new wheel service
func NewService(store repository.WheelState, table *Table, publisher event.Publisher, opts ...Option) Service {
	s := &service{
		store:        store,
		table:        table,
		publisher:    publisher,
		rng:          SecureRand,
		now:          time.Now,
		cooldown:     SpinCooldownDuration,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// eligibilityOf computes eligibility from a state snapshot. Pure function
// of (state, now, cooldown); shared by the read path and the spin
// precondition check.
func eligibilityOf(state *domain.UserWheelState, now time.Time, cooldown time.Duration) domain.Eligibility {
	el := domain.Eligibility{BonusCredits: state.BonusCredits}

	if state.BonusCredits > 0 {
		// Pre-paid spins bypass the cooldown entirely.
		el.CanSpin = true
		return el
	}

	if state.LastSpunAt == nil {
		el.CanSpin = true
		return el
	}

	elapsed := now.Sub(*state.LastSpunAt)
	if elapsed >= cooldown {
		el.CanSpin = true
		return el
	}

	el.Remaining = cooldown - elapsed
	el.RemainingSec = int64(el.Remaining.Seconds())
	return el
}

func (s *service) Eligibility(ctx context.Context, userID string) (*domain.Eligibility, error) {
	state, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadStateFailed, err)
	}

	el := eligibilityOf(state, s.now(), s.cooldown)
	return &el, nil
}

func (s *service) Spin(ctx context.Context, userID string, usePaidCredit bool) (*domain.SpinResult, error) {
	log := logger.FromContext(ctx)

	var result *domain.SpinResult

	// The store runs fn under per-user mutual exclusion, so the
	// eligibility check and the state write cannot interleave with a
	// concurrent spin for the same user.
	_, err := s.store.Update(ctx, userID, func(state *domain.UserWheelState) (*domain.SpinResult, error) {
		now := s.now()

		if usePaidCredit {
			if state.BonusCredits <= 0 {
				return nil, ErrNoCredits
			}
		} else if state.LastSpunAt != nil {
			// The free spin is gated on the cooldown alone; holding
			// credits does not reset the 24h window.
			if elapsed := now.Sub(*state.LastSpunAt); elapsed < s.cooldown {
				return nil, ErrNotEligible{Remaining: s.cooldown - elapsed}
			}
		}

		seg := s.table.sample(s.rng)

		result = &domain.SpinResult{
			ID:        uuid.NewString(),
			UserID:    userID,
			SegmentID: seg.ID,
			Reward:    seg.Value,
			Label:     seg.DisplayLabel(),
			Paid:      usePaidCredit,
			Timestamp: now,
		}

		if usePaidCredit {
			state.BonusCredits--
			if state.BonusCredits < 0 {
				state.BonusCredits = 0
			}
		} else {
			ts := now
			state.LastSpunAt = &ts
		}

		state.History = append([]domain.SpinResult{*result}, state.History...)
		if len(state.History) > s.historyLimit {
			state.History = state.History[:s.historyLimit]
		}

		return result, nil
	})
	if err != nil {
		s.recordRefusal(err)
		return nil, err
	}

	metrics.WheelSpinsTotal.WithLabelValues(result.Label, spinKind(usePaidCredit)).Inc()
	metrics.WheelRewardCoins.Observe(float64(result.Reward))

	log.Info(LogMsgSpinCompleted,
		"user_id", userID,
		"spin_id", result.ID,
		"segment_id", result.SegmentID,
		"reward", result.Reward,
		"paid", usePaidCredit)

	s.publishSpinCompleted(ctx, result)

	return result, nil
}

func (s *service) GrantBonusCredits(ctx context.Context, userID string, count int) (int, error) {
	if count <= 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidCount, count)
	}

	state, err := s.store.Update(ctx, userID, func(state *domain.UserWheelState) (*domain.SpinResult, error) {
		state.BonusCredits += count
		return nil, nil
	})
	if err != nil {
		return 0, fmt.Errorf(ErrMsgUpdateStateFailed, err)
	}

	metrics.WheelCreditsGranted.Add(float64(count))

	log := logger.FromContext(ctx)
	log.Info(LogMsgCreditsGranted, "user_id", userID, "count", count, "total", state.BonusCredits)

	s.publish(ctx, domain.EventCreditsGranted, domain.CreditsGrantedPayload{
		UserID:  userID,
		Granted: count,
		Total:   state.BonusCredits,
	})

	return state.BonusCredits, nil
}

func (s *service) History(ctx context.Context, userID string) ([]domain.SpinResult, error) {
	state, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadStateFailed, err)
	}
	return state.History, nil
}

func (s *service) ResetCooldown(ctx context.Context, userID string) error {
	_, err := s.store.Update(ctx, userID, func(state *domain.UserWheelState) (*domain.SpinResult, error) {
		state.LastSpunAt = nil
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf(ErrMsgUpdateStateFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgCooldownReset, "user_id", userID)
	return nil
}

func (s *service) Segments() []domain.WheelSegment {
	return s.table.All()
}

// RewardDescription builds the ledger description for a spin reward.
func RewardDescription(reward int) string {
	return fmt.Sprintf("Wheel reward: %d %s", reward, CurrencyUnit)
}

func (s *service) publishSpinCompleted(ctx context.Context, result *domain.SpinResult) {
	s.publish(ctx, domain.EventSpinCompleted, domain.SpinCompletedPayload{
		SpinID:      result.ID,
		UserID:      result.UserID,
		SegmentID:   result.SegmentID,
		Reward:      result.Reward,
		Paid:        result.Paid,
		Description: RewardDescription(result.Reward),
	})
}

func (s *service) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	evt := event.Event{
		Type:    event.Type(eventType),
		Payload: payload,
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}

func (s *service) recordRefusal(err error) {
	switch {
	case isNotEligible(err):
		metrics.WheelSpinRefusals.WithLabelValues(RefusalReasonCooldown).Inc()
	case isNoCredits(err):
		metrics.WheelSpinRefusals.WithLabelValues(RefusalReasonNoCredits).Inc()
	}
}

func spinKind(paid bool) string {
	if paid {
		return "paid"
	}
	return "free"
}
