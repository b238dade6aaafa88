package wheel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/slotjack/wheelhouse/internal/domain"
)

// Sentinel errors for table validation. These are configuration invariant
// violations: they fail at startup, never per spin.
var (
	ErrEmptyTable         = errors.New("wheel table has no segments")
	ErrNonPositiveWeight  = errors.New("segment weight must be positive")
	ErrNonPositiveValue   = errors.New("segment value must be positive")
	ErrDuplicateSegmentID = errors.New("duplicate segment id")
)

// TableConfig is the JSON configuration for the wheel.
type TableConfig struct {
	Version     string               `json:"version"`
	Description string               `json:"description,omitempty"`
	Segments    []domain.WheelSegment `json:"segments"`
}

// Table is the fixed catalog of wheel outcomes. Immutable after
// construction; order is stable and matches the configuration file.
type Table struct {
	segments    []domain.WheelSegment
	byID        map[int]domain.WheelSegment
	totalWeight float64
}

// NewTable validates segments and builds the lookup table.
func NewTable(segments []domain.WheelSegment) (*Table, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyTable
	}

	byID := make(map[int]domain.WheelSegment, len(segments))
	total := 0.0
	for _, seg := range segments {
		if seg.Weight <= 0 {
			return nil, fmt.Errorf("%w: segment %d has weight %v", ErrNonPositiveWeight, seg.ID, seg.Weight)
		}
		if seg.Value <= 0 {
			return nil, fmt.Errorf("%w: segment %d has value %d", ErrNonPositiveValue, seg.ID, seg.Value)
		}
		if _, exists := byID[seg.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateSegmentID, seg.ID)
		}
		byID[seg.ID] = seg
		total += seg.Weight
	}

	// Copy so callers cannot mutate the table through the input slice.
	owned := make([]domain.WheelSegment, len(segments))
	copy(owned, segments)

	return &Table{
		segments:    owned,
		byID:        byID,
		totalWeight: total,
	}, nil
}

// LoadTable reads and validates a wheel configuration file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadConfigFailed, err)
	}

	var config TableConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
	}

	return NewTable(config.Segments)
}

// All returns the full table in stable order.
func (t *Table) All() []domain.WheelSegment {
	out := make([]domain.WheelSegment, len(t.segments))
	copy(out, t.segments)
	return out
}

// ByID looks up a segment. Unknown ids return ok=false rather than an
// error; callers treat historical references to removed segments as
// display-only.
func (t *Table) ByID(id int) (domain.WheelSegment, bool) {
	seg, ok := t.byID[id]
	return seg, ok
}

// TotalWeight returns the sum of all segment weights.
func (t *Table) TotalWeight() float64 {
	return t.totalWeight
}

// Len returns the number of segments.
func (t *Table) Len() int {
	return len(t.segments)
}
