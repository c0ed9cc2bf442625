package goodsections

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwatch/goodsections/internal/timeframe"
)

func TestGoodSections_ExportToCache(t *testing.T) {
	g := newResult(t, time.Second)
	g.Append(frame(t, ts(0), ts(10)), []*timeframe.TimeFrame{
		frame(t, ts(2), ts(5)),
		frame(t, ts(7), time.Time{}),
	})
	g.Append(frame(t, ts(10), ts(20)), []*timeframe.TimeFrame{
		frame(t, time.Time{}, ts(15)),
	})

	rows := g.ExportToCache()

	require.Len(t, rows, 3)

	// Chunk order, then in-chunk section order; the chunk key is duplicated
	// across its sections.
	assert.Equal(t, ts(0).UnixNano(), rows[0].ChunkStart)
	assert.Equal(t, ts(0).UnixNano(), rows[1].ChunkStart)
	assert.Equal(t, ts(10).UnixNano(), rows[2].ChunkStart)

	assert.Equal(t, ts(10).UnixNano(), rows[0].End)
	assert.Equal(t, ts(10).UnixNano(), rows[1].End)
	assert.Equal(t, ts(20).UnixNano(), rows[2].End)

	assert.Equal(t, ts(2).UnixNano(), rows[0].SectionStart)
	assert.Equal(t, ts(5).UnixNano(), rows[0].SectionEnd)

	// Unbounded boundaries use the explicit sentinel, never a bare zero.
	assert.Equal(t, NotATime, rows[1].SectionEnd)
	assert.Equal(t, NotATime, rows[2].SectionStart)
}

func TestGoodSections_CacheRoundTrip(t *testing.T) {
	orig := newResult(t, time.Second)
	orig.Append(frame(t, ts(0), ts(10)), []*timeframe.TimeFrame{
		frame(t, ts(2), time.Time{}),
	})
	orig.Append(frame(t, ts(10), ts(20)), []*timeframe.TimeFrame{
		frame(t, time.Time{}, ts(15)),
	})

	restored := newResult(t, time.Second)
	require.NoError(t, restored.ImportFromCache(orig.ExportToCache(), orig.ChunkFrames()))

	want, err := orig.Combined()
	require.NoError(t, err)

	got, err := restored.Combined()
	require.NoError(t, err)

	require.Len(t, got, len(want))

	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "section %d: want %v, got %v", i, want[i], got[i])
		assert.Equal(t, want[i].IncludeEnd(), got[i].IncludeEnd())
	}
}

func TestGoodSections_ImportFromCache(t *testing.T) {
	tests := []struct {
		name        string
		rows        []CacheRow
		known       func(t *testing.T) []*timeframe.TimeFrame
		expectError error
		validate    func(t *testing.T, g *GoodSections)
	}{
		{
			name: "stale chunk absent from known boundaries is skipped",
			rows: []CacheRow{
				{ChunkStart: ts(0).UnixNano(), End: ts(10).UnixNano(), SectionStart: ts(2).UnixNano(), SectionEnd: ts(8).UnixNano()},
				{ChunkStart: ts(40).UnixNano(), End: ts(50).UnixNano(), SectionStart: ts(41).UnixNano(), SectionEnd: ts(49).UnixNano()},
			},
			known: func(t *testing.T) []*timeframe.TimeFrame {
				t.Helper()

				return []*timeframe.TimeFrame{frame(t, ts(0), ts(10))}
			},
			validate: func(t *testing.T, g *GoodSections) {
				t.Helper()

				rows := g.Rows()
				require.Len(t, rows, 1)
				assert.True(t, rows[0].Start.Equal(ts(0)))
			},
		},
		{
			name: "conflicting chunk ends within one group are fatal",
			rows: []CacheRow{
				{ChunkStart: ts(0).UnixNano(), End: ts(10).UnixNano(), SectionStart: ts(2).UnixNano(), SectionEnd: ts(5).UnixNano()},
				{ChunkStart: ts(0).UnixNano(), End: ts(12).UnixNano(), SectionStart: ts(6).UnixNano(), SectionEnd: ts(9).UnixNano()},
			},
			known: func(t *testing.T) []*timeframe.TimeFrame {
				t.Helper()

				return []*timeframe.TimeFrame{frame(t, ts(0), ts(10))}
			},
			expectError: ErrCacheCorrupt,
		},
		{
			name: "sentinel boundaries reconstruct as unbounded",
			rows: []CacheRow{
				{ChunkStart: ts(0).UnixNano(), End: ts(10).UnixNano(), SectionStart: ts(2).UnixNano(), SectionEnd: NotATime},
			},
			known: func(t *testing.T) []*timeframe.TimeFrame {
				t.Helper()

				return []*timeframe.TimeFrame{frame(t, ts(0), ts(10))}
			},
			validate: func(t *testing.T, g *GoodSections) {
				t.Helper()

				rows := g.Rows()
				require.Len(t, rows, 1)
				require.Len(t, rows[0].Sections, 1)
				assert.True(t, rows[0].Sections[0].Start().Equal(ts(2)))
				assert.True(t, rows[0].Sections[0].End().IsZero())
			},
		},
		{
			name: "interleaved keys group by first appearance",
			rows: []CacheRow{
				{ChunkStart: ts(0).UnixNano(), End: ts(10).UnixNano(), SectionStart: ts(1).UnixNano(), SectionEnd: ts(3).UnixNano()},
				{ChunkStart: ts(10).UnixNano(), End: ts(20).UnixNano(), SectionStart: ts(11).UnixNano(), SectionEnd: ts(13).UnixNano()},
				{ChunkStart: ts(0).UnixNano(), End: ts(10).UnixNano(), SectionStart: ts(5).UnixNano(), SectionEnd: ts(8).UnixNano()},
			},
			known: func(t *testing.T) []*timeframe.TimeFrame {
				t.Helper()

				return []*timeframe.TimeFrame{frame(t, ts(0), ts(10)), frame(t, ts(10), ts(20))}
			},
			validate: func(t *testing.T, g *GoodSections) {
				t.Helper()

				rows := g.Rows()
				require.Len(t, rows, 2)
				require.Len(t, rows[0].Sections, 2)
				assert.True(t, rows[0].Sections[1].Start().Equal(ts(5)))
				require.Len(t, rows[1].Sections, 1)
			},
		},
		{
			name: "empty cache imports nothing",
			rows: nil,
			known: func(t *testing.T) []*timeframe.TimeFrame {
				t.Helper()

				return nil
			},
			validate: func(t *testing.T, g *GoodSections) {
				t.Helper()
				assert.Zero(t, g.Len())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newResult(t, time.Second)

			err := g.ImportFromCache(tt.rows, tt.known(t))

			if tt.expectError != nil {
				require.ErrorIs(t, err, tt.expectError)

				return
			}

			require.NoError(t, err)
			tt.validate(t, g)
		})
	}
}
