package domain

import (
	"strconv"
	"time"
)

// WheelSegment is one possible wheel outcome. Segments are static
// configuration loaded at startup and never mutated at runtime.
type WheelSegment struct {
	ID     int     `json:"id"`
	Value  int     `json:"value"`
	Weight float64 `json:"weight"`
	Label  string  `json:"label,omitempty"`
}

// DisplayLabel returns the configured label, falling back to the
// stringified reward value.
func (s WheelSegment) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return strconv.Itoa(s.Value)
}

// UserWheelState holds the per-user spin state. One instance per user,
// created lazily with zero values on first access.
type UserWheelState struct {
	UserID string `json:"user_id"`

	// LastSpunAt is the time of the most recent free (cooldown-gated) spin.
	// nil means the user has never spun. Paid spins never touch it.
	LastSpunAt *time.Time `json:"last_spun_at,omitempty"`

	// BonusCredits is the number of pre-paid spins available outside the
	// cooldown. Never negative.
	BonusCredits int `json:"bonus_credits"`

	// History holds past spin results, most recent first, bounded by the
	// configured history limit.
	History []SpinResult `json:"history"`

	// Version supports optimistic concurrency in the postgres store.
	// Zero for a state that has never been persisted.
	Version int64 `json:"-"`
}

// NewUserWheelState returns the default state for a user that has never
// spun: no cooldown, no credits, empty history.
func NewUserWheelState(userID string) *UserWheelState {
	return &UserWheelState{UserID: userID}
}

// SpinResult records one successful spin. Reward and label are copied from
// the segment at spin time so later catalog edits do not rewrite history.
type SpinResult struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SegmentID int       `json:"segment_id"`
	Reward    int       `json:"reward"`
	Label     string    `json:"label"`
	Paid      bool      `json:"paid"`
	Timestamp time.Time `json:"timestamp"`
}

// Eligibility reports whether a user may spin right now and, if not, how
// long until they can. Informational only; computing it has no side effects.
type Eligibility struct {
	CanSpin      bool          `json:"can_spin"`
	Remaining    time.Duration `json:"-"`
	RemainingSec int64         `json:"remaining_seconds"`
	BonusCredits int           `json:"bonus_credits"`
}
