package wheel

import (
	"errors"
	"fmt"
	"time"

	"github.com/slotjack/wheelhouse/internal/domain"
)

// ErrNotEligible is returned when a free spin is attempted inside the
// cooldown window. It is a routine business refusal, not a transient error:
// retrying cannot succeed until real time passes or a credit is added.
type ErrNotEligible struct {
	Remaining time.Duration
}

func (e ErrNotEligible) Error() string {
	hours := int(e.Remaining.Hours())
	minutes := int(e.Remaining.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("you can spin again in %dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("you can spin again in %dm", minutes)
	}
	return fmt.Sprintf("you can spin again in %ds", int(e.Remaining.Seconds()))
}

// Is allows errors.Is() to work with ErrNotEligible
func (e ErrNotEligible) Is(target error) bool {
	_, ok := target.(ErrNotEligible)
	return ok
}

// ErrNoCredits is returned when a paid spin is attempted with zero bonus
// credits. Also a refusal; state is never mutated on this path.
var ErrNoCredits = domain.ErrNoBonusCredits

// IsRefusal reports whether err is a business-rule refusal rather than a
// storage failure. Refusals are deterministic: automatic retry cannot help.
func IsRefusal(err error) bool {
	return isNotEligible(err) || isNoCredits(err)
}

func isNotEligible(err error) bool {
	return errors.Is(err, ErrNotEligible{})
}

func isNoCredits(err error) bool {
	return errors.Is(err, ErrNoCredits)
}
