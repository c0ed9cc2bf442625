package sections

//go:generate mockgen -package mocks -destination mocks/mock_provider.go github.com/gridwatch/goodsections/internal/sections Provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gridwatch/goodsections/internal/cachestore"
	"github.com/gridwatch/goodsections/internal/goodsections"
	"github.com/gridwatch/goodsections/internal/leader"
	"github.com/gridwatch/goodsections/internal/timeframe"
)

// Compile-time interface compliance check.
var _ Provider = (*Service)(nil)

var (
	// ErrUnknownSeries is returned for series no chunk has been reported for.
	ErrUnknownSeries = errors.New("sections: unknown series")

	// ErrOutOfOrderChunk is returned when a chunk report arrives with a key
	// at or before the previously appended chunk. The merge pass requires
	// strict arrival order.
	ErrOutOfOrderChunk = errors.New("sections: chunk out of order")

	// ErrInvalidChunk is returned when a chunk report has unbounded
	// boundaries; only sections may be open-ended, never the chunk itself.
	ErrInvalidChunk = errors.New("sections: chunk boundaries must be bounded")
)

// Provider is the sections interface exposed to HTTP handlers.
type Provider interface {
	Start(ctx context.Context) error
	Stop() error
	AppendChunk(ctx context.Context, series string, chunk *timeframe.TimeFrame, secs []*timeframe.TimeFrame) error
	Combined(ctx context.Context, series string) ([]*timeframe.TimeFrame, error)
	Summary(ctx context.Context, series string) (goodsections.Summary, error)
	WriteSVG(ctx context.Context, series string, w io.Writer) error
	Restore(ctx context.Context, series string, known []*timeframe.TimeFrame) (int, error)
	SeriesNames(ctx context.Context) []string
}

// Service holds one good-sections accumulator per series and persists them to
// the cache store. Snapshots run on a timer and only on the leader instance,
// so a fleet of replicas shares one writer.
type Service struct {
	log     logrus.FieldLogger
	cfg     Config
	store   cachestore.Store
	elector leader.Elector

	mu     sync.RWMutex
	series map[string]*goodsections.GoodSections

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates the sections service.
func New(
	log logrus.FieldLogger,
	cfg Config,
	store cachestore.Store,
	elector leader.Elector,
) *Service {
	return &Service{
		log:     log.WithField("component", "sections"),
		cfg:     cfg,
		store:   store,
		elector: elector,
		series:  make(map[string]*goodsections.GoodSections),
		done:    make(chan struct{}),
	}
}

// Start launches the background snapshot loop.
func (s *Service) Start(ctx context.Context) error {
	s.log.WithFields(logrus.Fields{
		"max_sample_period": s.cfg.MaxSamplePeriod,
		"snapshot_interval": s.cfg.SnapshotInterval,
	}).Info("Starting sections service")

	s.wg.Add(1)

	go s.snapshotLoop(ctx)

	return nil
}

// Stop halts the snapshot loop and, when leader, flushes a final snapshot so
// nothing reported since the last tick is lost.
func (s *Service) Stop() error {
	s.log.Info("Stopping sections service")
	close(s.done)
	s.wg.Wait()

	if s.elector.IsLeader() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.snapshot(ctx)
	}

	return nil
}

// AppendChunk records one chunk's detection result for a series. The chunk
// frame must be fully bounded and must follow the previously appended chunk.
func (s *Service) AppendChunk(
	_ context.Context,
	series string,
	chunk *timeframe.TimeFrame,
	secs []*timeframe.TimeFrame,
) error {
	if chunk == nil || chunk.Start().IsZero() || chunk.End().IsZero() {
		return ErrInvalidChunk
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.series[series]
	if !ok {
		result = goodsections.New(s.log, s.cfg.MaxSamplePeriod)
		s.series[series] = result
		seriesTracked.Set(float64(len(s.series)))
	}

	if rows := result.Rows(); len(rows) > 0 {
		last := rows[len(rows)-1]
		if !chunk.Start().After(last.Start) {
			return fmt.Errorf("%w: %v does not follow %v", ErrOutOfOrderChunk, chunk.Start(), last.Start)
		}
	}

	result.Append(chunk, secs)
	chunksAppended.WithLabelValues(series).Inc()

	s.log.WithFields(logrus.Fields{
		"series":   series,
		"chunk":    chunk.String(),
		"sections": len(secs),
	}).Debug("Appended chunk report")

	return nil
}

// Combined returns the merged good sections for a series. The read lock is
// held for the whole merge so a concurrent AppendChunk cannot grow the row
// slice mid-walk.
func (s *Service) Combined(_ context.Context, series string) ([]*timeframe.TimeFrame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.get(series)
	if err != nil {
		return nil, err
	}

	combined, err := result.Combined()
	if err != nil {
		mergesTotal.WithLabelValues("error").Inc()

		return nil, err
	}

	mergesTotal.WithLabelValues("ok").Inc()

	return combined, nil
}

// Summary returns the serializable merged view for a series.
func (s *Service) Summary(_ context.Context, series string) (goodsections.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.get(series)
	if err != nil {
		return goodsections.Summary{}, err
	}

	return result.Summary()
}

// WriteSVG renders the merged sections for a series.
func (s *Service) WriteSVG(_ context.Context, series string, w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.get(series)
	if err != nil {
		return err
	}

	return result.WriteSVG(w)
}

// Restore rebuilds a series' accumulator from the cache store, keeping only
// cached chunks whose boundaries are members of known. The freshly restored
// accumulator replaces any in-memory state for the series. Returns the number
// of chunks restored.
func (s *Service) Restore(
	ctx context.Context,
	series string,
	known []*timeframe.TimeFrame,
) (int, error) {
	rows, err := s.store.LoadRows(ctx, series)
	if err != nil {
		return 0, fmt.Errorf("load cached rows: %w", err)
	}

	restored := goodsections.New(s.log, s.cfg.MaxSamplePeriod)
	if err := restored.ImportFromCache(rows, known); err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.series[series] = restored
	seriesTracked.Set(float64(len(s.series)))
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"series":      series,
		"cached_rows": len(rows),
		"chunks":      restored.Len(),
	}).Info("Restored series from cache")

	return restored.Len(), nil
}

// SeriesNames returns all series currently tracked, sorted for stable output.
func (s *Service) SeriesNames(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.series))
	for name := range s.series {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// get looks up a series. Callers must hold s.mu.
func (s *Service) get(series string) (*goodsections.GoodSections, error) {
	result, ok := s.series[series]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSeries, series)
	}

	return result, nil
}

func (s *Service) snapshotLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			// Only the leader writes snapshots.
			if s.elector.IsLeader() {
				s.snapshot(ctx)
			}
		}
	}
}

// snapshot exports every tracked series to the cache store.
func (s *Service) snapshot(ctx context.Context) {
	s.mu.RLock()

	exports := make(map[string][]goodsections.CacheRow, len(s.series))
	for name, result := range s.series {
		exports[name] = result.ExportToCache()
	}

	s.mu.RUnlock()

	for name, rows := range exports {
		if err := s.store.SaveRows(ctx, name, rows); err != nil {
			snapshotErrors.Inc()
			s.log.WithError(err).WithField("series", name).Error("Failed to snapshot series")

			continue
		}

		snapshotsTotal.Inc()
	}

	if len(exports) > 0 {
		s.log.WithField("series_count", len(exports)).Debug("Wrote cache snapshot")
	}
}
