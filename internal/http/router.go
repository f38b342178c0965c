package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts every API route
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/health", h.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/productos", h.HandleProducts)
		r.Get("/emprendimientos", h.HandleVentures)
		r.Get("/search/suggest", h.HandleSuggest)
		r.Get("/search", h.HandleSearch)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireUser)
			r.Get("/favoritos/mine", h.HandleMyFavorites)
			r.Post("/favoritos/toggle", h.HandleToggleFavorite)
		})
	})

	return r
}

// logRequests logs every request through the handler's zerolog logger
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	})
}
