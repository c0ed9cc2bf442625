//nolint:tagliatelle // superior snake-case yo.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/gridwatch/goodsections/internal/config"
	"github.com/gridwatch/goodsections/internal/version"
)

// Verify interface compliance at compile time.
var _ http.Handler = (*ConfigHandler)(nil)

// ConfigResponse is the JSON response for /api/v1/config.
type ConfigResponse struct {
	Version                 string  `json:"version"`
	MaxSamplePeriodSeconds  float64 `json:"max_sample_period_seconds"`
	SnapshotIntervalSeconds float64 `json:"snapshot_interval_seconds"`
	CacheBackend            string  `json:"cache_backend"`
}

// ConfigHandler handles GET /api/v1/config requests.
type ConfigHandler struct {
	config *config.Config
	logger logrus.FieldLogger
}

// NewConfigHandler creates a new config API handler.
func NewConfigHandler(cfg *config.Config, logger logrus.FieldLogger) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
		logger: logger.WithField("handler", "config"),
	}
}

// ServeHTTP serves the runtime configuration view.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := ConfigResponse{
		Version:                 version.Short(),
		MaxSamplePeriodSeconds:  h.config.Sections.MaxSamplePeriod.Seconds(),
		SnapshotIntervalSeconds: h.config.Sections.SnapshotInterval.Seconds(),
		CacheBackend:            h.config.Cache.Backend,
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
