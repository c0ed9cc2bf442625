package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwatch/goodsections/internal/cachestore"
	"github.com/gridwatch/goodsections/internal/config"
	"github.com/gridwatch/goodsections/internal/testutil"
)

func TestConfigHandler_ServeHTTP(t *testing.T) {
	cfg := &config.Config{
		Sections: config.SectionsConfig{
			MaxSamplePeriod:  4 * time.Second,
			SnapshotInterval: 30 * time.Second,
		},
		Cache: cachestore.Config{
			Backend: cachestore.BackendRedis,
		},
	}

	handler := NewConfigHandler(cfg, testutil.NewTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/config", http.NoBody)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ConfigResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.NotEmpty(t, resp.Version)
	assert.InDelta(t, 4.0, resp.MaxSamplePeriodSeconds, 0.001)
	assert.InDelta(t, 30.0, resp.SnapshotIntervalSeconds, 0.001)
	assert.Equal(t, cachestore.BackendRedis, resp.CacheBackend)
}
