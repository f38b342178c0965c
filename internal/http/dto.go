// Package httpapi provides the HTTP handlers of the QuitoEmprende development API.
package httpapi

import "github.com/dsjohal14/quitoemprende/internal/scope/catalog"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Products int    `json:"productos"`
	Ventures int    `json:"emprendimientos"`
}

// SuggestResponse wraps suggestions the way the API does
type SuggestResponse struct {
	Sugerencias catalog.SuggestionSet `json:"sugerencias"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
