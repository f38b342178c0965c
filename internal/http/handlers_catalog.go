package httpapi

import "net/http"

// HandleProducts lists the product catalog
func (h *Handler) HandleProducts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Products())
}

// HandleVentures lists the venture catalog
func (h *Handler) HandleVentures(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Ventures())
}
