package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dsjohal14/quitoemprende/internal/cache"
	"github.com/dsjohal14/quitoemprende/internal/scope/db"
	"github.com/dsjohal14/quitoemprende/internal/scope/search"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const defaultCacheTTL = 30 * time.Second

// Options holds optional handler collaborators
type Options struct {
	// Cache holds suggest answers; nil disables caching
	Cache    cache.SuggestCache
	CacheTTL time.Duration
	// JWTSecret verifies bearer tokens on the favorites routes
	JWTSecret string
}

// Handler contains HTTP handlers for the API
type Handler struct {
	store    db.Storage
	engine   *search.Engine
	cache    cache.SuggestCache
	cacheTTL time.Duration
	secret   string
	validate *validator.Validate
	suggests singleflight.Group
	logger   zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(store db.Storage, logger zerolog.Logger, opts Options) *Handler {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Handler{
		store:    store,
		engine:   search.NewEngine(store),
		cache:    opts.Cache,
		cacheTTL: ttl,
		secret:   opts.JWTSecret,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Helper functions used across all handlers

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
