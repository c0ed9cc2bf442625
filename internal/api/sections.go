//nolint:tagliatelle // superior snake-case yo.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gridwatch/goodsections/internal/sections"
	"github.com/gridwatch/goodsections/internal/timeframe"
)

// Verify interface compliance at compile time.
var (
	_ http.Handler = (*AppendChunkHandler)(nil)
	_ http.Handler = (*SectionsHandler)(nil)
	_ http.Handler = (*SectionsSVGHandler)(nil)
	_ http.Handler = (*RestoreHandler)(nil)
	_ http.Handler = (*SeriesListHandler)(nil)
)

// FramePayload is the wire form of a time frame. Null boundaries are
// unbounded, signalling a section that continues past the chunk edge.
type FramePayload struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

func (p FramePayload) toTimeFrame() (*timeframe.TimeFrame, error) {
	var start, end time.Time

	if p.Start != nil {
		start = *p.Start
	}

	if p.End != nil {
		end = *p.End
	}

	return timeframe.New(start, end)
}

// AppendChunkRequest is one chunk's detection report.
type AppendChunkRequest struct {
	Chunk    FramePayload   `json:"chunk"`
	Sections []FramePayload `json:"sections"`
}

// RestoreRequest carries the chunk boundaries the current run intends to
// process; cached chunks outside this set are discarded.
type RestoreRequest struct {
	Chunks []FramePayload `json:"chunks"`
}

// RestoreResponse reports the outcome of a cache restore.
type RestoreResponse struct {
	Series         string `json:"series"`
	ChunksRestored int    `json:"chunks_restored"`
}

// AppendChunkHandler handles POST /api/v1/series/{series}/chunks.
type AppendChunkHandler struct {
	provider sections.Provider
	logger   logrus.FieldLogger
}

// NewAppendChunkHandler creates the chunk-report handler.
func NewAppendChunkHandler(provider sections.Provider, logger logrus.FieldLogger) *AppendChunkHandler {
	return &AppendChunkHandler{
		provider: provider,
		logger:   logger.WithField("handler", "append_chunk"),
	}
}

// ServeHTTP handles a chunk report.
func (h *AppendChunkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	series := r.PathValue("series")
	if series == "" {
		errorResponse(w, h.logger, http.StatusBadRequest, "series parameter required")

		return
	}

	var req AppendChunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, h.logger, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))

		return
	}

	chunk, err := req.Chunk.toTimeFrame()
	if err != nil {
		errorResponse(w, h.logger, http.StatusBadRequest, fmt.Sprintf("invalid chunk: %v", err))

		return
	}

	secs := make([]*timeframe.TimeFrame, 0, len(req.Sections))

	for i, payload := range req.Sections {
		section, err := payload.toTimeFrame()
		if err != nil {
			errorResponse(w, h.logger, http.StatusBadRequest, fmt.Sprintf("invalid section %d: %v", i, err))

			return
		}

		secs = append(secs, section)
	}

	if err := h.provider.AppendChunk(r.Context(), series, chunk, secs); err != nil {
		switch {
		case errors.Is(err, sections.ErrInvalidChunk), errors.Is(err, sections.ErrOutOfOrderChunk):
			errorResponse(w, h.logger, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.WithError(err).WithField("series", series).Error("Failed to append chunk")
			errorResponse(w, h.logger, http.StatusInternalServerError, "internal server error")
		}

		return
	}

	w.WriteHeader(http.StatusAccepted)

	h.logger.WithFields(logrus.Fields{
		"series":   series,
		"sections": len(secs),
	}).Debug("Accepted chunk report")
}

// SectionsHandler handles GET /api/v1/series/{series}/sections.
type SectionsHandler struct {
	provider sections.Provider
	logger   logrus.FieldLogger
}

// NewSectionsHandler creates the merged-sections handler.
func NewSectionsHandler(provider sections.Provider, logger logrus.FieldLogger) *SectionsHandler {
	return &SectionsHandler{
		provider: provider,
		logger:   logger.WithField("handler", "sections"),
	}
}

// ServeHTTP serves the merged good sections for a series.
func (h *SectionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	series := r.PathValue("series")
	if series == "" {
		errorResponse(w, h.logger, http.StatusBadRequest, "series parameter required")

		return
	}

	summary, err := h.provider.Summary(r.Context(), series)
	if err != nil {
		if errors.Is(err, sections.ErrUnknownSeries) {
			errorResponse(w, h.logger, http.StatusNotFound, "series not found")

			return
		}

		h.logger.WithError(err).WithField("series", series).Error("Failed to merge sections")
		errorResponse(w, h.logger, http.StatusInternalServerError, "internal server error")

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(summary); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

// SectionsSVGHandler handles GET /api/v1/series/{series}/sections.svg.
type SectionsSVGHandler struct {
	provider sections.Provider
	logger   logrus.FieldLogger
}

// NewSectionsSVGHandler creates the SVG plot handler.
func NewSectionsSVGHandler(provider sections.Provider, logger logrus.FieldLogger) *SectionsSVGHandler {
	return &SectionsSVGHandler{
		provider: provider,
		logger:   logger.WithField("handler", "sections_svg"),
	}
}

// ServeHTTP renders the merged sections as SVG.
func (h *SectionsSVGHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	series := r.PathValue("series")
	if series == "" {
		errorResponse(w, h.logger, http.StatusBadRequest, "series parameter required")

		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")

	if err := h.provider.WriteSVG(r.Context(), series, w); err != nil {
		if errors.Is(err, sections.ErrUnknownSeries) {
			// Header not yet flushed for an unknown series; WriteSVG writes
			// nothing before merging succeeds.
			errorResponse(w, h.logger, http.StatusNotFound, "series not found")

			return
		}

		h.logger.WithError(err).WithField("series", series).Error("Failed to render sections")
	}
}

// RestoreHandler handles POST /api/v1/series/{series}/restore.
type RestoreHandler struct {
	provider sections.Provider
	logger   logrus.FieldLogger
}

// NewRestoreHandler creates the cache-restore handler.
func NewRestoreHandler(provider sections.Provider, logger logrus.FieldLogger) *RestoreHandler {
	return &RestoreHandler{
		provider: provider,
		logger:   logger.WithField("handler", "restore"),
	}
}

// ServeHTTP rebuilds a series from the cache store, keeping only chunks whose
// boundaries the request names.
func (h *RestoreHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	series := r.PathValue("series")
	if series == "" {
		errorResponse(w, h.logger, http.StatusBadRequest, "series parameter required")

		return
	}

	var req RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, h.logger, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))

		return
	}

	known := make([]*timeframe.TimeFrame, 0, len(req.Chunks))

	for i, payload := range req.Chunks {
		chunk, err := payload.toTimeFrame()
		if err != nil {
			errorResponse(w, h.logger, http.StatusBadRequest, fmt.Sprintf("invalid chunk %d: %v", i, err))

			return
		}

		known = append(known, chunk)
	}

	restored, err := h.provider.Restore(r.Context(), series, known)
	if err != nil {
		h.logger.WithError(err).WithField("series", series).Error("Failed to restore series from cache")
		errorResponse(w, h.logger, http.StatusInternalServerError, "internal server error")

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(RestoreResponse{
		Series:         series,
		ChunksRestored: restored,
	}); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

// SeriesListHandler handles GET /api/v1/series.
type SeriesListHandler struct {
	provider sections.Provider
	logger   logrus.FieldLogger
}

// NewSeriesListHandler creates the series listing handler.
func NewSeriesListHandler(provider sections.Provider, logger logrus.FieldLogger) *SeriesListHandler {
	return &SeriesListHandler{
		provider: provider,
		logger:   logger.WithField("handler", "series_list"),
	}
}

// ServeHTTP lists the tracked series.
func (h *SeriesListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	names := h.provider.SeriesNames(r.Context())

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string][]string{"series": names}); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

// errorResponse writes a JSON error response.
func errorResponse(w http.ResponseWriter, logger logrus.FieldLogger, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		logger.WithError(err).Error("Failed to encode error response")
	}
}
