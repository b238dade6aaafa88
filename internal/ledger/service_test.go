package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotjack/wheelhouse/internal/database/memory"
	"github.com/slotjack/wheelhouse/internal/domain"
	"github.com/slotjack/wheelhouse/internal/event"
	"github.com/slotjack/wheelhouse/internal/ledger"
)

func TestService_Credit(t *testing.T) {
	svc := ledger.NewService(memory.NewLedgerStore())
	ctx := context.Background()

	require.NoError(t, svc.Credit(ctx, "user-1", 100, "Wheel reward: 100 coins"))

	balance, err := svc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 100, balance)

	entries, err := svc.Entries(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Wheel reward: 100 coins", entries[0].Description)
}

func TestService_CreditInvalidAmount(t *testing.T) {
	svc := ledger.NewService(memory.NewLedgerStore())

	err := svc.Credit(context.Background(), "user-1", 0, "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidCount)
}

func TestSubscribeToSpinEvents_CreditsReward(t *testing.T) {
	svc := ledger.NewService(memory.NewLedgerStore())
	bus := event.NewMemoryBus()
	ledger.SubscribeToSpinEvents(bus, svc)

	ctx := context.Background()
	err := bus.Publish(ctx, event.Event{
		Type: event.Type(domain.EventSpinCompleted),
		Payload: domain.SpinCompletedPayload{
			SpinID:      "spin-1",
			UserID:      "user-1",
			SegmentID:   3,
			Reward:      250,
			Description: "Wheel reward: 250 coins",
		},
	})
	require.NoError(t, err)

	balance, err := svc.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 250, balance)
}

func TestSubscribeToSpinEvents_IgnoresUnexpectedPayload(t *testing.T) {
	svc := ledger.NewService(memory.NewLedgerStore())
	bus := event.NewMemoryBus()
	ledger.SubscribeToSpinEvents(bus, svc)

	// Wrong payload type is logged and dropped, not retried forever
	err := bus.Publish(context.Background(), event.Event{
		Type:    event.Type(domain.EventSpinCompleted),
		Payload: "not a spin payload",
	})
	assert.NoError(t, err)
}

// failingLedger rejects every credit to exercise the retry contract.
type failingLedger struct{}

func (f *failingLedger) Credit(ctx context.Context, userID string, amount int, description string) error {
	return errors.New("ledger down")
}

func (f *failingLedger) Balance(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

func (f *failingLedger) Entries(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	return nil, nil
}

func TestSubscribeToSpinEvents_PropagatesCreditFailure(t *testing.T) {
	svc := ledger.NewService(&failingLedger{})
	bus := event.NewMemoryBus()
	ledger.SubscribeToSpinEvents(bus, svc)

	err := bus.Publish(context.Background(), event.Event{
		Type:    event.Type(domain.EventSpinCompleted),
		Payload: domain.SpinCompletedPayload{UserID: "user-1", Reward: 10},
	})
	assert.Error(t, err, "credit failure must surface so the publisher retries")
}
