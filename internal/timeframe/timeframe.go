package timeframe

import (
	"errors"
	"fmt"
	"time"
)

// ErrOutOfOrder is returned when assigning a boundary that would invert the
// frame's ordering (end before start). Callers doing a best-effort extension
// catch it with errors.Is and leave the frame unchanged.
var ErrOutOfOrder = errors.New("timeframe: end before start")

// NoneMarker is the serialized representation of an unbounded boundary.
const NoneMarker = "none"

// TimeFrame is a half-open time interval [start, end) over a sensor stream.
// Either boundary may be unbounded (the zero time), meaning the frame is known
// to continue past a chunk boundary. The end becomes inclusive when IncludeEnd
// is set, which only happens for the final frame of a whole scan.
type TimeFrame struct {
	start      time.Time
	end        time.Time
	includeEnd bool
}

// New creates a frame with the given boundaries. A zero start or end is
// unbounded. Returns ErrOutOfOrder when both boundaries are set and end
// precedes start.
func New(start, end time.Time) (*TimeFrame, error) {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, fmt.Errorf("%w: start=%v end=%v", ErrOutOfOrder, start, end)
	}

	return &TimeFrame{start: start, end: end}, nil
}

// Start returns the start boundary (zero = unbounded).
func (tf *TimeFrame) Start() time.Time {
	return tf.start
}

// End returns the end boundary (zero = unbounded).
func (tf *TimeFrame) End() time.Time {
	return tf.end
}

// IncludeEnd reports whether the end boundary is inclusive.
func (tf *TimeFrame) IncludeEnd() bool {
	return tf.includeEnd
}

// SetStart updates the start boundary in place. Passing the zero time clears
// it back to unbounded. Returns ErrOutOfOrder (frame unchanged) when the new
// start would land after a set end.
func (tf *TimeFrame) SetStart(t time.Time) error {
	if !t.IsZero() && !tf.end.IsZero() && tf.end.Before(t) {
		return fmt.Errorf("%w: start=%v end=%v", ErrOutOfOrder, t, tf.end)
	}

	tf.start = t

	return nil
}

// SetEnd updates the end boundary in place. Passing the zero time clears it
// back to unbounded. Returns ErrOutOfOrder (frame unchanged) when the new end
// would land before a set start.
func (tf *TimeFrame) SetEnd(t time.Time) error {
	if !t.IsZero() && !tf.start.IsZero() && t.Before(tf.start) {
		return fmt.Errorf("%w: start=%v end=%v", ErrOutOfOrder, tf.start, t)
	}

	tf.end = t

	return nil
}

// SetIncludeEnd marks the end boundary inclusive or exclusive.
func (tf *TimeFrame) SetIncludeEnd(include bool) {
	tf.includeEnd = include
}

// Equal reports boundary identity with another frame. IncludeEnd is not part
// of a frame's identity; cache re-validation matches chunks on boundaries
// alone.
func (tf *TimeFrame) Equal(other *TimeFrame) bool {
	if other == nil {
		return false
	}

	return tf.start.Equal(other.start) && tf.end.Equal(other.end)
}

// Copy returns an independent frame with the same boundaries and end
// inclusivity. The merge engine mutates only frames it owns.
func (tf *TimeFrame) Copy() *TimeFrame {
	clone := *tf

	return &clone
}

// Duration returns end - start, or zero when either boundary is unbounded.
func (tf *TimeFrame) Duration() time.Duration {
	if tf.start.IsZero() || tf.end.IsZero() {
		return 0
	}

	return tf.end.Sub(tf.start)
}

// Record is the plain serialized form of a frame.
type Record struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Record serializes the frame's boundaries, mapping unbounded to an explicit
// marker rather than an empty value.
func (tf *TimeFrame) Record() Record {
	return Record{
		Start: formatBoundary(tf.start),
		End:   formatBoundary(tf.end),
	}
}

// String implements fmt.Stringer for log output.
func (tf *TimeFrame) String() string {
	closing := ")"
	if tf.includeEnd {
		closing = "]"
	}

	return fmt.Sprintf("[%s, %s%s", formatBoundary(tf.start), formatBoundary(tf.end), closing)
}

func formatBoundary(t time.Time) string {
	if t.IsZero() {
		return NoneMarker
	}

	return t.UTC().Format(time.RFC3339Nano)
}
