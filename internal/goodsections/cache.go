package goodsections

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gridwatch/goodsections/internal/timeframe"
)

// NotATime is the cached sentinel for an unbounded section boundary. It is an
// explicit value distinct from any valid timestamp, never a bare null that
// could be confused with missing data.
const NotATime int64 = math.MinInt64

// ErrCacheCorrupt signals cached rows that violate the cache-table contract,
// such as one chunk's rows disagreeing on the chunk end.
var ErrCacheCorrupt = errors.New("goodsections: corrupt cache rows")

// CacheRow is the flat persisted form of one section: the chunk key is
// duplicated across all sections belonging to the same chunk, and every row
// sharing a key carries the same chunk end. Timestamps are UTC nanoseconds.
type CacheRow struct {
	ChunkStart   int64 `json:"chunk_start"`
	End          int64 `json:"end"`
	SectionStart int64 `json:"section_start"`
	SectionEnd   int64 `json:"section_end"`
}

// ExportToCache flattens the accumulator to one row per section, in chunk
// order then in-chunk section order. Chunks whose detector found no sections
// produce no rows.
func (g *GoodSections) ExportToCache() []CacheRow {
	rows := make([]CacheRow, 0, g.Len())

	for _, row := range g.Rows() {
		for _, section := range row.Sections {
			rows = append(rows, CacheRow{
				ChunkStart:   toCacheTime(row.Start),
				End:          toCacheTime(row.End),
				SectionStart: toCacheTime(section.Start()),
				SectionEnd:   toCacheTime(section.End()),
			})
		}
	}

	return rows
}

// ImportFromCache reconstructs accumulator rows from cached rows, feeding each
// accepted chunk through Append exactly as a fresh detection pass would.
//
// Rows are grouped by chunk key in first-seen order. A group whose (start,
// end) boundary is not a member of knownChunks is skipped: the cache may hold
// stale chunks from a previous, differently-chunked run, and those are
// discarded silently. Rows within one group disagreeing on the chunk end are
// a fatal ErrCacheCorrupt.
func (g *GoodSections) ImportFromCache(rows []CacheRow, knownChunks []*timeframe.TimeFrame) error {
	var (
		order  []int64
		groups = make(map[int64][]CacheRow)
	)

	for _, row := range rows {
		if _, seen := groups[row.ChunkStart]; !seen {
			order = append(order, row.ChunkStart)
		}

		groups[row.ChunkStart] = append(groups[row.ChunkStart], row)
	}

	for _, key := range order {
		group := groups[key]

		for _, row := range group[1:] {
			if row.End != group[0].End {
				return fmt.Errorf(
					"%w: chunk %d has conflicting end values %d and %d",
					ErrCacheCorrupt, key, group[0].End, row.End,
				)
			}
		}

		chunk, err := timeframe.New(fromCacheTime(key), fromCacheTime(group[0].End))
		if err != nil {
			return fmt.Errorf("%w: chunk %d: %v", ErrCacheCorrupt, key, err)
		}

		if !containsFrame(knownChunks, chunk) {
			g.log.WithField("chunk", chunk.String()).Debug("Skipping stale cached chunk")

			continue
		}

		sections := make([]*timeframe.TimeFrame, 0, len(group))

		for _, row := range group {
			section, err := timeframe.New(fromCacheTime(row.SectionStart), fromCacheTime(row.SectionEnd))
			if err != nil {
				return fmt.Errorf("%w: section in chunk %d: %v", ErrCacheCorrupt, key, err)
			}

			sections = append(sections, section)
		}

		g.Append(chunk, sections)
	}

	return nil
}

func containsFrame(frames []*timeframe.TimeFrame, frame *timeframe.TimeFrame) bool {
	for _, f := range frames {
		if frame.Equal(f) {
			return true
		}
	}

	return false
}

func toCacheTime(t time.Time) int64 {
	if t.IsZero() {
		return NotATime
	}

	return t.UnixNano()
}

func fromCacheTime(ns int64) time.Time {
	if ns == NotATime {
		return time.Time{}
	}

	return time.Unix(0, ns).UTC()
}
