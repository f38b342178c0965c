package db

import (
	"context"
	"errors"

	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
)

// ErrNotFound is returned when a catalog item does not exist
var ErrNotFound = errors.New("not found")

// Storage backs the dev API server
// Both Store (file-based) and PGStore (Postgres favorites) implement this interface
type Storage interface {
	// Snapshot returns the catalog; the slices must not be modified
	Snapshot() catalog.Snapshot

	// Products lists every product
	Products() []catalog.Product

	// Ventures lists every venture
	Ventures() []catalog.Venture

	// Favorites lists the favorites of a user
	Favorites(ctx context.Context, userID string) ([]catalog.Favorite, error)

	// ToggleFavorite adds the item when absent and removes it when present
	ToggleFavorite(ctx context.Context, userID string, req catalog.ToggleRequest) (catalog.ToggleResponse, error)

	// Flush persists any pending changes
	Flush(ctx context.Context) error

	// Close flushes and closes the storage
	Close() error
}

// Ensure both Store and PGStore implement Storage
var _ Storage = (*Store)(nil)
var _ Storage = (*PGStore)(nil)
