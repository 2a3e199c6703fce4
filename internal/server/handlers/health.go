package handlers

import (
	"net/http"

	"github.com/pricemap-tw/pricemap/internal/server/response"
	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
)

// HandleHealth handles GET /api/v1/health.
// @Summary Health check
// @Description Health check endpoint (liveness check)
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/health [get].
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": constants.ServiceName,
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready.
// @Summary Readiness check
// @Description Reports whether the directory has been loaded
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /api/v1/ready [get].
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if !h.client.Ready() {
		response.ServiceUnavailable(w, errors.MsgLoadFailed)
		return
	}

	snap := h.client.Snapshot()
	response.OK(w, map[string]any{
		"status":    "ready",
		"locations": len(snap.Locations),
		"loaded_at": snap.LoadedAt,
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
	})
}
