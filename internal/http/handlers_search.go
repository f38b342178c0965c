package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dsjohal14/quitoemprende/internal/cache"
	"github.com/dsjohal14/quitoemprende/internal/libs/textnorm"
	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"github.com/dsjohal14/quitoemprende/internal/scope/search"
	"github.com/go-chi/chi/v5/middleware"
)

// HandleSuggest answers the dropdown suggestions for ?q=
func (h *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	// Short queries get an empty answer rather than an error
	if !textnorm.IsRemote(q) {
		writeJSON(w, http.StatusOK, SuggestResponse{Sugerencias: search.Matches{}.AsSuggestions()})
		return
	}

	set := h.suggest(r.Context(), q)

	h.logger.Debug().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("query", q).
		Int("suggestions", set.Len()).
		Msg("suggest completed")

	writeJSON(w, http.StatusOK, SuggestResponse{Sugerencias: set})
}

// suggest reads through the cache; concurrent misses for one key run the engine once
func (h *Handler) suggest(ctx context.Context, q string) catalog.SuggestionSet {
	key := cache.Key(q)

	if h.cache != nil {
		set, err := h.cache.Get(ctx, key)
		if err == nil {
			return set
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn().Err(err).Str("key", key).Msg("suggest cache read failed")
		}
	}

	v, _, _ := h.suggests.Do(key, func() (any, error) {
		set := h.engine.Suggest(q, search.DefaultSuggestLimit)
		if h.cache != nil {
			if err := h.cache.Set(context.WithoutCancel(ctx), key, set, h.cacheTTL); err != nil {
				h.logger.Warn().Err(err).Str("key", key).Msg("suggest cache write failed")
			}
		}
		return set, nil
	})
	return v.(catalog.SuggestionSet)
}

// HandleSearch runs a paginated search over ?q=&types=&page=&limit=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := search.Query{
		Text:  params.Get("q"),
		Types: search.ParseTypes(params.Get("types")),
	}

	var err error
	if raw := params.Get("page"); raw != "" {
		if q.Page, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "page must be a number", "INVALID_PAGE")
			return
		}
	}
	if raw := params.Get("limit"); raw != "" {
		if q.Limit, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "limit must be a number", "INVALID_LIMIT")
			return
		}
	}

	result := h.engine.Search(q)

	h.logger.Info().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("query", q.Text).
		Int("page", result.Page).
		Int("total", result.Counts.Total()).
		Msg("search completed")

	writeJSON(w, http.StatusOK, result)
}
