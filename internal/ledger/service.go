package ledger

import (
	"context"
	"fmt"

	"github.com/slotjack/wheelhouse/internal/domain"
	"github.com/slotjack/wheelhouse/internal/event"
	"github.com/slotjack/wheelhouse/internal/logger"
	"github.com/slotjack/wheelhouse/internal/metrics"
	"github.com/slotjack/wheelhouse/internal/repository"
)

// Service applies balance changes and exposes balances to the API. The
// wheel engine never credits balances itself; this service consumes
// wheel.spin.completed events and records the reward with its auditable
// description.
type Service interface {
	Credit(ctx context.Context, userID string, amount int, description string) error
	Balance(ctx context.Context, userID string) (int, error)
	Entries(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error)
}

type service struct {
	repo repository.Ledger
}

// NewService creates a new ledger service
func NewService(repo repository.Ledger) Service {
	return &service{repo: repo}
}

func (s *service) Credit(ctx context.Context, userID string, amount int, description string) error {
	if err := s.repo.Credit(ctx, userID, amount, description); err != nil {
		return fmt.Errorf("failed to credit user %s: %w", userID, err)
	}
	metrics.LedgerCreditsTotal.Add(float64(amount))
	return nil
}

func (s *service) Balance(ctx context.Context, userID string) (int, error) {
	return s.repo.Balance(ctx, userID)
}

func (s *service) Entries(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	return s.repo.Entries(ctx, userID, limit)
}

// SubscribeToSpinEvents wires the ledger to the event bus: every completed
// spin credits the reward to the user's balance. Returning the credit
// error makes the resilient publisher retry delivery, so a transient
// ledger failure does not lose the reward.
func SubscribeToSpinEvents(bus event.Bus, svc Service) {
	bus.Subscribe(event.Type(domain.EventSpinCompleted), func(ctx context.Context, evt event.Event) error {
		payload, ok := evt.Payload.(domain.SpinCompletedPayload)
		if !ok {
			logger.FromContext(ctx).Error("Unexpected spin event payload", "type", fmt.Sprintf("%T", evt.Payload))
			return nil
		}

		return svc.Credit(ctx, payload.UserID, payload.Reward, payload.Description)
	})
}
