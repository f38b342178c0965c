package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the database connection pool
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying connection pool
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

const schema = `
CREATE TABLE IF NOT EXISTS favoritos (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	item        TEXT NOT NULL,
	item_model  TEXT NOT NULL,
	meta        JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, item)
)`

// Migrate creates the favorites table
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// PGStore serves the catalog from a file Store and keeps favorites in Postgres
type PGStore struct {
	catalog *Store
	db      *DB
	// toggleMu serializes toggles of this process; the unique key guards across processes
	toggleMu sync.Mutex
}

// NewPGStore combines a catalog store with a migrated database
func NewPGStore(ctx context.Context, catalogStore *Store, d *DB) (*PGStore, error) {
	if err := d.Migrate(ctx); err != nil {
		return nil, err
	}
	return &PGStore{catalog: catalogStore, db: d}, nil
}

// Snapshot implements Storage
func (s *PGStore) Snapshot() catalog.Snapshot {
	return s.catalog.Snapshot()
}

// Products implements Storage
func (s *PGStore) Products() []catalog.Product {
	return s.catalog.Products()
}

// Ventures implements Storage
func (s *PGStore) Ventures() []catalog.Venture {
	return s.catalog.Ventures()
}

// Favorites implements Storage
func (s *PGStore) Favorites(ctx context.Context, userID string) ([]catalog.Favorite, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT id, item, item_model, meta FROM favoritos WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}

	favs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Favorite, error) {
		var f catalog.Favorite
		var model string
		if err := row.Scan(&f.ID, &f.Item, &model, &f.Meta); err != nil {
			return catalog.Favorite{}, err
		}
		f.ItemModel = catalog.ItemKind(model)
		f.Activo = true
		return f, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan favorites: %w", err)
	}
	return favs, nil
}

// ToggleFavorite implements Storage
func (s *PGStore) ToggleFavorite(ctx context.Context, userID string, req catalog.ToggleRequest) (catalog.ToggleResponse, error) {
	meta, err := s.catalog.Lookup(req.ItemID, req.ItemModel)
	if err != nil {
		return catalog.ToggleResponse{}, err
	}
	if req.Meta.Nombre != "" {
		meta = req.Meta
	}

	s.toggleMu.Lock()
	defer s.toggleMu.Unlock()

	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return catalog.ToggleResponse{}, fmt.Errorf("failed to begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM favoritos WHERE user_id = $1 AND item = $2`, userID, req.ItemID)
	if err != nil {
		return catalog.ToggleResponse{}, fmt.Errorf("failed to delete favorite: %w", err)
	}

	resp := catalog.ToggleResponse{Action: catalog.ActionRemoved}
	if tag.RowsAffected() == 0 {
		fav := catalog.Favorite{
			ID:        uuid.NewString(),
			Item:      req.ItemID,
			ItemModel: req.ItemModel,
			Meta:      meta,
			Activo:    true,
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO favoritos (id, user_id, item, item_model, meta, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			fav.ID, userID, fav.Item, string(fav.ItemModel), fav.Meta, time.Now().UTC())
		if err != nil {
			return catalog.ToggleResponse{}, fmt.Errorf("failed to insert favorite: %w", err)
		}
		resp = catalog.ToggleResponse{Action: catalog.ActionAdded, Favorito: &fav}
	}

	if err := tx.Commit(ctx); err != nil {
		return catalog.ToggleResponse{}, fmt.Errorf("failed to commit: %w", err)
	}
	return resp, nil
}

// Flush implements Storage
func (s *PGStore) Flush(ctx context.Context) error {
	return s.catalog.Flush(ctx)
}

// Close flushes the catalog and closes the pool
func (s *PGStore) Close() error {
	err := s.catalog.Close()
	s.db.Close()
	return err
}
