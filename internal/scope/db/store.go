// Package db provides catalog and favorites storage for the QuitoEmprende dev server.
package db

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const (
	productsFile  = "productos.jsonl"
	venturesFile  = "emprendimientos.jsonl"
	favoritesFile = "favoritos.jsonl"
	lockFile      = ".lock"

	lockRetry   = 50 * time.Millisecond
	lockTimeout = 5 * time.Second
)

// storedFavorite is one line of favoritos.jsonl
type storedFavorite struct {
	UserID    string           `json:"user_id"`
	Favorite  catalog.Favorite `json:"favorite"`
	CreatedAt time.Time        `json:"created_at"`
}

// Store keeps the catalog and favorites in memory and persists them as JSONL files
type Store struct {
	dataDir string
	lock    *flock.Flock

	mu        sync.RWMutex
	products  []catalog.Product
	ventures  []catalog.Venture
	favorites []storedFavorite

	catalogModified   bool
	favoritesModified bool
}

// NewStore creates a new store with the given data directory
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dataDir:   dataDir,
		lock:      flock.New(filepath.Join(dataDir, lockFile)),
		products:  make([]catalog.Product, 0),
		ventures:  make([]catalog.Venture, 0),
		favorites: make([]storedFavorite, 0),
	}

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	return s, nil
}

// SetCatalog replaces the whole catalog
func (s *Store) SetCatalog(products []catalog.Product, ventures []catalog.Venture) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append(make([]catalog.Product, 0, len(products)), products...)
	s.ventures = append(make([]catalog.Venture, 0, len(ventures)), ventures...)
	s.catalogModified = true
}

// Snapshot implements Storage
func (s *Store) Snapshot() catalog.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.Snapshot{Products: s.products, Ventures: s.ventures}
}

// Products implements Storage
func (s *Store) Products() []catalog.Product {
	return s.Snapshot().Products
}

// Ventures implements Storage
func (s *Store) Ventures() []catalog.Venture {
	return s.Snapshot().Ventures
}

// Lookup returns the favorite metadata of a catalog item
func (s *Store) Lookup(id string, kind catalog.ItemKind) (catalog.FavoriteMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch kind {
	case catalog.ItemProduct:
		for _, p := range s.products {
			if p.ID == id {
				return catalog.MetaFromProduct(p), nil
			}
		}
	case catalog.ItemVenture:
		for _, v := range s.ventures {
			if v.ID == id {
				return catalog.MetaFromVenture(v), nil
			}
		}
	}
	return catalog.FavoriteMeta{}, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// Favorites implements Storage
func (s *Store) Favorites(_ context.Context, userID string) ([]catalog.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Favorite, 0)
	for _, f := range s.favorites {
		if f.UserID == userID {
			out = append(out, f.Favorite)
		}
	}
	return out, nil
}

// ToggleFavorite implements Storage
func (s *Store) ToggleFavorite(_ context.Context, userID string, req catalog.ToggleRequest) (catalog.ToggleResponse, error) {
	meta, err := s.Lookup(req.ItemID, req.ItemModel)
	if err != nil {
		return catalog.ToggleResponse{}, err
	}
	if req.Meta.Nombre != "" {
		meta = req.Meta
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.favorites {
		if f.UserID == userID && f.Favorite.Item == req.ItemID {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			s.favoritesModified = true
			return catalog.ToggleResponse{Action: catalog.ActionRemoved}, nil
		}
	}

	fav := catalog.Favorite{
		ID:        uuid.NewString(),
		Item:      req.ItemID,
		ItemModel: req.ItemModel,
		Meta:      meta,
		Activo:    true,
	}
	s.favorites = append(s.favorites, storedFavorite{UserID: userID, Favorite: fav, CreatedAt: time.Now().UTC()})
	s.favoritesModified = true

	return catalog.ToggleResponse{Action: catalog.ActionAdded, Favorito: &fav}, nil
}

// Flush writes modified files under the data directory lock
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalogModified && !s.favoritesModified {
		return nil // No changes to write
	}

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(lockCtx, lockRetry)
	if err != nil {
		return fmt.Errorf("failed to lock data directory: %w", err)
	}
	if !locked {
		return fmt.Errorf("data directory %s is locked", s.dataDir)
	}
	defer func() { _ = s.lock.Unlock() }()

	if s.catalogModified {
		if err := writeJSONL(filepath.Join(s.dataDir, productsFile), s.products); err != nil {
			return err
		}
		if err := writeJSONL(filepath.Join(s.dataDir, venturesFile), s.ventures); err != nil {
			return err
		}
		s.catalogModified = false
	}

	if s.favoritesModified {
		if err := writeJSONL(filepath.Join(s.dataDir, favoritesFile), s.favorites); err != nil {
			return err
		}
		s.favoritesModified = false
	}

	return nil
}

// Close flushes and closes the store
func (s *Store) Close() error {
	return s.Flush(context.Background())
}

// writeJSONL replaces path with one JSON document per line
func writeJSONL[T any](path string, items []T) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}

	w := bufio.NewWriter(f)
	encoder := json.NewEncoder(w)
	for i := range items {
		if err := encoder.Encode(items[i]); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// load reads store from disk; missing files are empty
func (s *Store) load() error {
	var err error
	if s.products, err = readJSONL[catalog.Product](filepath.Join(s.dataDir, productsFile)); err != nil {
		return err
	}
	if s.ventures, err = readJSONL[catalog.Venture](filepath.Join(s.dataDir, venturesFile)); err != nil {
		return err
	}
	if s.favorites, err = readJSONL[storedFavorite](filepath.Join(s.dataDir, favoritesFile)); err != nil {
		return err
	}
	return nil
}

func readJSONL[T any](path string) ([]T, error) {
	out := make([]T, 0)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
		}
		out = append(out, item)
	}

	return out, scanner.Err()
}
