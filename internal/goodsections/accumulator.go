package goodsections

import (
	"fmt"
	"time"

	"github.com/gridwatch/goodsections/internal/timeframe"
)

// Row is one accumulated chunk record: the chunk's boundaries plus the
// sections detected within it. Start doubles as the row key.
type Row struct {
	Start    time.Time
	End      time.Time
	Sections []*timeframe.TimeFrame
}

// Accumulator gathers per-chunk detection results in arrival order. It never
// re-sorts and never deduplicates; the producer feeds chunks in ascending key
// order and the merge engine depends on that.
type Accumulator struct {
	rows []Row
}

// Append adds one chunk record. The chunk frame supplies the row key (its
// start) and the row's end; sections is the detector's output for that chunk,
// stored as-is.
func (a *Accumulator) Append(chunk *timeframe.TimeFrame, sections []*timeframe.TimeFrame) {
	a.rows = append(a.rows, Row{
		Start:    chunk.Start(),
		End:      chunk.End(),
		Sections: sections,
	})
}

// Rows returns all accumulated records in append order.
func (a *Accumulator) Rows() []Row {
	return a.rows
}

// Len returns the number of accumulated chunk records.
func (a *Accumulator) Len() int {
	return len(a.rows)
}

// ChunkFrames returns the boundary frame of every accumulated chunk, in
// append order.
func (a *Accumulator) ChunkFrames() []*timeframe.TimeFrame {
	frames := make([]*timeframe.TimeFrame, 0, len(a.rows))

	for _, row := range a.rows {
		frame, err := timeframe.New(row.Start, row.End)
		if err != nil {
			// Rows are only ever appended from valid chunk frames.
			continue
		}

		frames = append(frames, frame)
	}

	return frames
}

// unify is the base combination capability: it verifies both accumulators
// cover the same chunks and otherwise leaves the receiver untouched. Merging
// the per-chunk payloads is the concrete result kind's job.
func (a *Accumulator) unify(other *Accumulator) error {
	if other == nil {
		return fmt.Errorf("unify: other accumulator is nil")
	}

	if len(a.rows) != len(other.rows) {
		return fmt.Errorf("unify: chunk count mismatch: %d != %d", len(a.rows), len(other.rows))
	}

	for i, row := range a.rows {
		if !row.Start.Equal(other.rows[i].Start) || !row.End.Equal(other.rows[i].End) {
			return fmt.Errorf("unify: chunk %d boundaries differ", i)
		}
	}

	return nil
}
