package handlers

import (
	"net/http"
	"time"

	"github.com/pricemap-tw/pricemap/internal/server/response"
	"github.com/pricemap-tw/pricemap/pkg/logging"
)

// HandleRefresh handles POST /api/v1/refresh.
// @Summary Reload the directory
// @Description Reads every location from the backend now and clears the response cache
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} response.Response{data=object}
// @Failure 401 {object} response.Response{error=response.Error}
// @Failure 502 {object} response.Response{error=response.Error}
// @Router /api/v1/refresh [post].
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	logger := logging.Ctx(r.Context())
	logger.Info().Msg("Directory refresh requested")

	snap, err := h.client.Refresh(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Directory refresh failed")
		response.ErrorFromType(w, err)
		return
	}

	h.cache.Clear()

	response.OK(w, map[string]any{
		"status":    "refreshed",
		"locations": len(snap.Locations),
		"loaded_at": snap.LoadedAt,
	})
}

// HandleStats handles GET /api/v1/stats.
// @Summary Server statistics
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/stats [get].
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	cacheStats := h.cache.GetStats()
	snap := h.client.Snapshot()

	var loadedAt any
	if snap.Loaded() {
		loadedAt = snap.LoadedAt
	}

	response.OK(w, map[string]any{
		"uptime_seconds": time.Since(h.startTime).Seconds(),
		"directory": map[string]any{
			"ready":     h.client.Ready(),
			"locations": len(snap.Locations),
			"loaded_at": loadedAt,
		},
		"cache": map[string]any{
			"items":  cacheStats.ItemCount,
			"hits":   cacheStats.Hits,
			"misses": cacheStats.Misses,
		},
	})
}
