package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"github.com/dsjohal14/quitoemprende/internal/scope/db"
)

// HandleMyFavorites lists the caller's favorites
func (h *Handler) HandleMyFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.store.Favorites(r.Context(), UserID(r.Context()))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list favorites")
		writeError(w, http.StatusInternalServerError, "failed to list favorites", "STORAGE_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

// HandleToggleFavorite adds or removes a favorite for the caller
func (h *Handler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req catalog.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid toggle request")
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "itemId and itemModel (Producto or Emprendimiento) are required",
			Code:    "VALIDATION_ERROR",
			Details: err.Error(),
		})
		return
	}

	user := UserID(r.Context())
	resp, err := h.store.ToggleFavorite(r.Context(), user, req)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
			return
		}
		h.logger.Error().Err(err).Str("item_id", req.ItemID).Msg("failed to toggle favorite")
		writeError(w, http.StatusInternalServerError, "failed to toggle favorite", "STORAGE_ERROR")
		return
	}

	if err := h.store.Flush(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to persist favorites")
		writeError(w, http.StatusInternalServerError, "failed to persist favorite", "STORAGE_ERROR")
		return
	}

	h.logger.Info().
		Str("user_id", user).
		Str("item_id", req.ItemID).
		Str("action", string(resp.Action)).
		Msg("favorite toggled")

	writeJSON(w, http.StatusOK, resp)
}
