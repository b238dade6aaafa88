package wheel

import (
	crand "crypto/rand"
	"encoding/binary"

	"github.com/slotjack/wheelhouse/internal/domain"
)

// RandFunc returns a uniform random float64 in [0, 1). Injectable so the
// distribution tests can run with a deterministic source.
type RandFunc func() float64

// SecureRand draws from crypto/rand. Default randomness source in
// production; the only place randomness enters the engine.
func SecureRand() float64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand failing means the platform entropy source is gone;
		// nothing sensible to return.
		panic(err)
	}
	// 53 bits of mantissa gives a uniform value in [0, 1).
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// sample performs one weighted draw over the table. The roll lands in
// [0, totalWeight) and the walk returns the first segment whose cumulative
// weight exceeds it, so each segment is chosen with probability
// weight/totalWeight. A single-segment table always returns that segment.
func (t *Table) sample(rng RandFunc) domain.WheelSegment {
	roll := rng() * t.totalWeight

	cumulative := 0.0
	for _, seg := range t.segments {
		cumulative += seg.Weight
		if roll < cumulative {
			return seg
		}
	}

	// Float rounding can leave roll a hair past the last boundary.
	return t.segments[len(t.segments)-1]
}
