package httpapi

import "net/http"

// HandleHealth returns API health status and catalog size
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := h.store.Snapshot()
	resp := HealthResponse{
		Status:   "healthy",
		Products: len(snap.Products),
		Ventures: len(snap.Ventures),
	}

	h.logger.Debug().Int("catalog_size", snap.Len()).Msg("health check")

	writeJSON(w, http.StatusOK, resp)
}
