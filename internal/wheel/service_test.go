package wheel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotjack/wheelhouse/internal/database/memory"
	"github.com/slotjack/wheelhouse/internal/domain"
	"github.com/slotjack/wheelhouse/internal/event"
	"github.com/slotjack/wheelhouse/internal/wheel"
)

var testSegments = []domain.WheelSegment{
	{ID: 1, Value: 10, Weight: 50, Label: "10 Coins"},
	{ID: 2, Value: 100, Weight: 30},
	{ID: 3, Value: 1000, Weight: 20, Label: "Jackpot"},
}

// fixedClock returns a controllable time source
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T, opts ...wheel.Option) (wheel.Service, *memory.WheelStore, *fixedClock) {
	t.Helper()

	table, err := wheel.NewTable(testSegments)
	require.NoError(t, err)

	store := memory.NewWheelStore()
	clock := &fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	base := []wheel.Option{
		wheel.WithClock(clock.Now),
		wheel.WithRand(func() float64 { return 0 }), // always first segment
	}
	svc := wheel.NewService(store, table, nil, append(base, opts...)...)
	return svc, store, clock
}

func TestEligibility_FreshUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	el, err := svc.Eligibility(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, el.CanSpin)
	assert.Zero(t, el.RemainingSec)
	assert.Zero(t, el.BonusCredits)
}

func TestSpin_FreshUserFreeSpin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Spin(ctx, "user-1", false)
	require.NoError(t, err)

	assert.Equal(t, "user-1", result.UserID)
	assert.Equal(t, 1, result.SegmentID)
	assert.Equal(t, 10, result.Reward)
	assert.Equal(t, "10 Coins", result.Label)
	assert.False(t, result.Paid)
	assert.NotEmpty(t, result.ID)

	// Spent the free spin: now on cooldown
	el, err := svc.Eligibility(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, el.CanSpin)
	assert.Equal(t, int64((24 * time.Hour).Seconds()), el.RemainingSec)
}

func TestSpin_RefusedDuringCooldown(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	_, err := svc.Spin(ctx, "user-1", false)
	require.NoError(t, err)

	clock.Advance(6 * time.Hour)

	_, err = svc.Spin(ctx, "user-1", false)
	require.Error(t, err)

	var notEligible wheel.ErrNotEligible
	require.True(t, errors.As(err, &notEligible))
	assert.Equal(t, 18*time.Hour, notEligible.Remaining)
	assert.True(t, wheel.IsRefusal(err))

	// Refused spin does not touch state
	history, err := svc.History(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSpin_AllowedAfterCooldownElapses(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	_, err := svc.Spin(ctx, "user-1", false)
	require.NoError(t, err)

	// One second short of the window still refuses
	clock.Advance(24*time.Hour - time.Second)
	_, err = svc.Spin(ctx, "user-1", false)
	assert.True(t, errors.Is(err, wheel.ErrNotEligible{}))

	clock.Advance(time.Second)
	result, err := svc.Spin(ctx, "user-1", false)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestSpin_PaidConsumesCredit(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	total, err := svc.GrantBonusCredits(ctx, "user-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	result, err := svc.Spin(ctx, "user-1", true)
	require.NoError(t, err)
	assert.True(t, result.Paid)

	el, err := svc.Eligibility(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, el.BonusCredits)
}

func TestSpin_PaidDoesNotTouchCooldown(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GrantBonusCredits(ctx, "user-1", 1)
	require.NoError(t, err)

	_, err = svc.Spin(ctx, "user-1", true)
	require.NoError(t, err)

	// Free spin still available right after the paid one
	result, err := svc.Spin(ctx, "user-1", false)
	require.NoError(t, err)
	assert.False(t, result.Paid)
}

func TestSpin_FreeSpinRefusedEvenWithCredits(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Spin(ctx, "user-1", false)
	require.NoError(t, err)

	_, err = svc.GrantBonusCredits(ctx, "user-1", 3)
	require.NoError(t, err)

	// Holding credits does not shorten the free-spin window
	_, err = svc.Spin(ctx, "user-1", false)
	assert.True(t, errors.Is(err, wheel.ErrNotEligible{}))

	// But eligibility reports spinnable via credits
	el, err := svc.Eligibility(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, el.CanSpin)
	assert.Equal(t, 3, el.BonusCredits)
}

func TestSpin_PaidWithZeroCredits(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Spin(ctx, "user-1", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wheel.ErrNoCredits))
	assert.True(t, wheel.IsRefusal(err))

	history, err := svc.History(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSpin_HistoryBoundedNewestFirst(t *testing.T) {
	svc, _, _ := newTestService(t, wheel.WithHistoryLimit(5))
	ctx := context.Background()

	_, err := svc.GrantBonusCredits(ctx, "user-1", 8)
	require.NoError(t, err)

	var lastID string
	for i := 0; i < 8; i++ {
		result, err := svc.Spin(ctx, "user-1", true)
		require.NoError(t, err)
		lastID = result.ID
	}

	history, err := svc.History(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Equal(t, lastID, history[0].ID, "most recent spin comes first")
}

func TestGrantBonusCredits_Accumulates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	total, err := svc.GrantBonusCredits(ctx, "user-1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	total, err = svc.GrantBonusCredits(ctx, "user-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestGrantBonusCredits_InvalidCount(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, count := range []int{0, -1} {
		_, err := svc.GrantBonusCredits(context.Background(), "user-1", count)
		assert.True(t, errors.Is(err, domain.ErrInvalidCount))
	}
}

func TestResetCooldown(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Spin(ctx, "user-1", false)
	require.NoError(t, err)

	require.NoError(t, svc.ResetCooldown(ctx, "user-1"))

	result, err := svc.Spin(ctx, "user-1", false)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestSpin_StorageFailure(t *testing.T) {
	svc, store, _ := newTestService(t)

	store.FailUpdates = errors.New("connection reset")

	_, err := svc.Spin(context.Background(), "user-1", false)
	require.Error(t, err)
	assert.False(t, wheel.IsRefusal(err), "storage failures are not refusals")
}

func TestEligibility_StorageFailure(t *testing.T) {
	svc, store, _ := newTestService(t)

	store.FailLoads = errors.New("connection reset")

	_, err := svc.Eligibility(context.Background(), "user-1")
	assert.Error(t, err)
}

func TestSpin_PublishesCompletionEvent(t *testing.T) {
	table, err := wheel.NewTable(testSegments)
	require.NoError(t, err)

	store := memory.NewWheelStore()
	bus := event.NewMemoryBus()

	var received []domain.SpinCompletedPayload
	bus.Subscribe(event.Type(domain.EventSpinCompleted), func(ctx context.Context, evt event.Event) error {
		payload, ok := evt.Payload.(domain.SpinCompletedPayload)
		require.True(t, ok)
		received = append(received, payload)
		return nil
	})

	svc := wheel.NewService(store, table, bus,
		wheel.WithRand(func() float64 { return 0.99 })) // lands on jackpot

	result, err := svc.Spin(context.Background(), "user-1", false)
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, result.ID, received[0].SpinID)
	assert.Equal(t, "user-1", received[0].UserID)
	assert.Equal(t, 1000, received[0].Reward)
	assert.Equal(t, wheel.RewardDescription(1000), received[0].Description)
}

func TestSpin_SegmentAlwaysFromTable(t *testing.T) {
	svc, _, clock := newTestService(t, wheel.WithRand(wheel.SecureRand))
	ctx := context.Background()

	table, err := wheel.NewTable(testSegments)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		result, err := svc.Spin(ctx, "user-1", false)
		require.NoError(t, err)

		seg, ok := table.ByID(result.SegmentID)
		require.True(t, ok, "spin returned unknown segment %d", result.SegmentID)
		assert.Equal(t, seg.Value, result.Reward)

		clock.Advance(24 * time.Hour)
	}
}

func TestRewardDescription(t *testing.T) {
	assert.Equal(t, "Wheel reward: 250 coins", wheel.RewardDescription(250))
}

func TestErrNotEligible_Error(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		want      string
	}{
		{"hours and minutes", 23*time.Hour + 30*time.Minute, "you can spin again in 23h 30m"},
		{"minutes only", 45 * time.Minute, "you can spin again in 45m"},
		{"seconds only", 30 * time.Second, "you can spin again in 30s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wheel.ErrNotEligible{Remaining: tt.remaining}
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestErrNotEligible_Is(t *testing.T) {
	err := wheel.ErrNotEligible{Remaining: time.Hour}

	assert.True(t, errors.Is(err, wheel.ErrNotEligible{}))
	assert.False(t, errors.Is(err, errors.New("other error")))
}
