package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"github.com/shopspring/decimal"
)

func seedStore(t *testing.T, dir string) *Store {
	t.Helper()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	store.SetCatalog(
		[]catalog.Product{{ID: "p1", Nombre: "Pan de yuca", Precio: decimal.RequireFromString("1.25")}},
		[]catalog.Venture{{ID: "v1", NombreComercial: "Tejidos Otavalo", Slug: "tejidos-otavalo"}},
	)
	return store
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.Snapshot().Len() != 0 {
		t.Errorf("new store should be empty, got %d items", store.Snapshot().Len())
	}
}

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t, t.TempDir())

	resp, err := store.ToggleFavorite(ctx, "u1", catalog.ToggleRequest{ItemID: "p1", ItemModel: catalog.ItemProduct})
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if resp.Action != catalog.ActionAdded || resp.Favorito == nil {
		t.Fatalf("expected added with record, got %+v", resp)
	}
	if resp.Favorito.Meta.Nombre != "Pan de yuca" || resp.Favorito.ID == "" {
		t.Errorf("expected catalog meta and an id, got %+v", resp.Favorito)
	}

	favs, _ := store.Favorites(ctx, "u1")
	if len(favs) != 1 {
		t.Errorf("expected 1 favorite, got %d", len(favs))
	}
	other, _ := store.Favorites(ctx, "u2")
	if len(other) != 0 {
		t.Errorf("favorites must be per user, got %d", len(other))
	}

	resp, err = store.ToggleFavorite(ctx, "u1", catalog.ToggleRequest{ItemID: "p1", ItemModel: catalog.ItemProduct})
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if resp.Action != catalog.ActionRemoved || resp.Favorito != nil {
		t.Errorf("expected removed, got %+v", resp)
	}
}

func TestToggleUnknownItem(t *testing.T) {
	store := seedStore(t, t.TempDir())

	tests := []catalog.ToggleRequest{
		{ItemID: "nope", ItemModel: catalog.ItemProduct},
		{ItemID: "p1", ItemModel: catalog.ItemVenture},
	}
	for _, req := range tests {
		if _, err := store.ToggleFavorite(context.Background(), "u1", req); !errors.Is(err, ErrNotFound) {
			t.Errorf("%+v: expected ErrNotFound, got %v", req, err)
		}
	}
}

func TestPersistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := seedStore(t, dir)
	if _, err := store.ToggleFavorite(ctx, "u1", catalog.ToggleRequest{ItemID: "v1", ItemModel: catalog.ItemVenture}); err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	for _, name := range []string{productsFile, venturesFile, favoritesFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	snap := reopened.Snapshot()
	if len(snap.Products) != 1 || !snap.Products[0].Precio.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("unexpected products after reopen: %+v", snap.Products)
	}

	favs, _ := reopened.Favorites(ctx, "u1")
	if len(favs) != 1 || favs[0].Item != "v1" || favs[0].Meta.Slug != "tejidos-otavalo" {
		t.Errorf("unexpected favorites after reopen: %+v", favs)
	}
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()

	yamlSeed := `productos:
  - _id: p1
    nombre: Café de altura
    precio: 8.5
    emprendimiento:
      _id: v1
      nombreComercial: Finca Nono
emprendimientos:
  - _id: v1
    nombreComercial: Finca Nono
    ubicacion:
      ciudad: Nono
    emprendedor:
      _id: o1
      nombre: Rosa
      apellido: Quishpe
`
	jsonSeed := `{"productos":[{"_id":"p1","nombre":"Café de altura","precio":"8.50"}],"emprendimientos":[]}`

	tests := []struct {
		name     string
		file     string
		body     string
		ventures int
	}{
		{"yaml", "seed.yaml", yamlSeed, 1},
		{"json", "seed.json", jsonSeed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}

			store, err := NewStore(filepath.Join(dir, tt.name))
			if err != nil {
				t.Fatalf("NewStore failed: %v", err)
			}
			if _, err := store.LoadSeed(path); err != nil {
				t.Fatalf("LoadSeed failed: %v", err)
			}

			snap := store.Snapshot()
			if len(snap.Products) != 1 || len(snap.Ventures) != tt.ventures {
				t.Fatalf("unexpected snapshot %+v", snap)
			}
			if !snap.Products[0].Precio.Equal(decimal.RequireFromString("8.5")) {
				t.Errorf("unexpected price %s", snap.Products[0].Precio)
			}
			if tt.ventures == 1 && snap.Ventures[0].Emprendedor.FullName() != "Rosa Quishpe" {
				t.Errorf("unexpected owner %+v", snap.Ventures[0].Emprendedor)
			}
		})
	}
}

func TestReadSeedInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("productos: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadSeed(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
