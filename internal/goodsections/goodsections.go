package goodsections

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gridwatch/goodsections/internal/timeframe"
)

// ErrInconsistent signals corrupted or misordered accumulator state detected
// during a merge. It aborts the merge; silently producing wrong sections is
// worse than failing.
var ErrInconsistent = errors.New("goodsections: inconsistent accumulator state")

// GoodSections accumulates the good sections detected independently over
// successive chunks of a time-series and stitches the ones that span chunk
// boundaries back into single frames.
//
// A chunk's trailing section arrives with an unbounded end ("continues into a
// later chunk") and the next chunk's leading section with an unbounded start.
// Combined joins the two only when the chunks are truly adjacent in time,
// within one maximum sample period of tolerance; chunk boundaries need not
// align exactly with sample timestamps, and that slack must not be mistaken
// for a real gap in the data.
type GoodSections struct {
	Accumulator

	log             logrus.FieldLogger
	maxSamplePeriod time.Duration
}

// New creates an empty good-sections result. maxSamplePeriod is the adjacency
// tolerance used when deciding whether two chunks are contiguous.
func New(log logrus.FieldLogger, maxSamplePeriod time.Duration) *GoodSections {
	return &GoodSections{
		log:             log.WithField("component", "goodsections"),
		maxSamplePeriod: maxSamplePeriod,
	}
}

// MaxSamplePeriod returns the adjacency tolerance.
func (g *GoodSections) MaxSamplePeriod() time.Duration {
	return g.maxSamplePeriod
}

// Combined walks the accumulated chunk records in arrival order and returns
// the single globally merged sequence of good sections. Sections spanning a
// chunk boundary are joined when the chunks are adjacent within the tolerance
// (prev.end - maxSamplePeriod <= key <= prev.end); otherwise the open ends
// are closed at the chunk boundaries.
//
// Combined works on copies of the stored sections, so the accumulator is
// never mutated and repeated calls return equal results.
func (g *GoodSections) Combined() ([]*timeframe.TimeFrame, error) {
	var (
		sections []*timeframe.TimeFrame
		prevEnd  time.Time
	)

	for _, row := range g.Rows() {
		rowSections := make([]*timeframe.TimeFrame, len(row.Sections))
		for i, s := range row.Sections {
			rowSections[i] = s.Copy()
		}

		// Boundary stitch: the first section of this row continues the
		// open-ended tail left by the previous chunk, provided the chunks are
		// adjacent within tolerance.
		if !prevEnd.IsZero() && len(rowSections) > 0 && rowSections[0].Start().IsZero() &&
			g.adjacent(prevEnd, row.Start) {
			if len(sections) == 0 {
				return nil, fmt.Errorf(
					"%w: open-started section at chunk %v with no prior section to extend",
					ErrInconsistent, row.Start,
				)
			}

			last := sections[len(sections)-1]
			if !last.End().IsZero() {
				return nil, fmt.Errorf(
					"%w: section before chunk %v expected to be open-ended, ends at %v",
					ErrInconsistent, row.Start, last.End(),
				)
			}

			if err := last.SetEnd(rowSections[0].End()); err != nil {
				return nil, fmt.Errorf("%w: extending across chunk %v: %v", ErrInconsistent, row.Start, err)
			}

			rowSections = rowSections[1:]
		}

		// The tail is still open-ended, so the adjacency test failed (or this
		// row carried no continuation): close it at the previous chunk's end.
		// A close that would run backwards means a malformed row; leave the
		// tail open rather than fail.
		if len(sections) > 0 && !prevEnd.IsZero() {
			last := sections[len(sections)-1]
			if last.End().IsZero() {
				if err := last.SetEnd(prevEnd); err != nil && !errors.Is(err, timeframe.ErrOutOfOrder) {
					return nil, err
				}
			}
		}

		// A leading section still open at the start means the detector had no
		// earlier context; anchor it to this chunk's own start.
		if len(rowSections) > 0 && rowSections[0].Start().IsZero() {
			if err := rowSections[0].SetStart(row.Start); err != nil && !errors.Is(err, timeframe.ErrOutOfOrder) {
				return nil, err
			}
		}

		prevEnd = row.End
		sections = append(sections, rowSections...)
	}

	if len(sections) > 0 {
		last := sections[len(sections)-1]
		last.SetIncludeEnd(true)

		if last.End().IsZero() {
			if err := last.SetEnd(prevEnd); err != nil {
				return nil, fmt.Errorf("%w: closing final section: %v", ErrInconsistent, err)
			}
		}
	}

	return sections, nil
}

// adjacent reports whether a chunk starting at key follows on from a previous
// chunk ending at prevEnd with no unscanned gap between them.
func (g *GoodSections) adjacent(prevEnd, key time.Time) bool {
	return !key.Before(prevEnd.Add(-g.maxSamplePeriod)) && !key.After(prevEnd)
}

// Unify would combine this result with one computed by an independent run.
// That is not implemented for good sections: it emits a warning and falls
// through to the base capability, which only checks the two runs covered the
// same chunks.
func (g *GoodSections) Unify(other *GoodSections) error {
	g.log.Warn("Not yet able to unify good sections results")

	if other == nil {
		return g.Accumulator.unify(nil)
	}

	return g.Accumulator.unify(&other.Accumulator)
}

// Summary is the serializable view of a merged result.
type Summary struct {
	Statistics Statistics `json:"statistics"`
}

// Statistics nests the merged sections under their statistic name.
type Statistics struct {
	GoodSections []timeframe.Record `json:"good_sections"`
}

// Summary merges the accumulated sections and returns them as a plain nested
// record.
func (g *GoodSections) Summary() (Summary, error) {
	combined, err := g.Combined()
	if err != nil {
		return Summary{}, err
	}

	records := make([]timeframe.Record, 0, len(combined))
	for _, section := range combined {
		records = append(records, section.Record())
	}

	return Summary{
		Statistics: Statistics{GoodSections: records},
	}, nil
}
