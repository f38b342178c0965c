package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dsjohal14/quitoemprende/internal/cache"
	"github.com/dsjohal14/quitoemprende/internal/libs/obs"
	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"github.com/dsjohal14/quitoemprende/internal/scope/db"
	"github.com/dsjohal14/quitoemprende/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const testSecret = "test-secret"

func setupTestHandler(t *testing.T, suggestCache cache.SuggestCache) (*Handler, *chi.Mux) {
	tmpDir := t.TempDir()

	store, err := db.NewStore(tmpDir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	owner := &catalog.Owner{ID: "o1", Nombre: "Ana", Apellido: "Pazmiño", Email: "ana@example.com"}
	store.SetCatalog(
		[]catalog.Product{
			{ID: "p1", Nombre: "Pan artesanal", Precio: decimal.RequireFromString("1.50"),
				Emprendimiento: &catalog.VentureRef{ID: "v1", NombreComercial: "Panadería Ana", Emprendedor: owner}},
			{ID: "p2", Nombre: "Café de altura", Precio: decimal.RequireFromString("8")},
		},
		[]catalog.Venture{
			{ID: "v1", NombreComercial: "Panadería Ana", Ubicacion: catalog.Location{Ciudad: "Quito"}, Emprendedor: owner},
		},
	)

	obs.InitLogger("error") // Quiet logs during tests
	logger := obs.Logger("test")
	handler := NewHandler(store, logger, Options{Cache: suggestCache, JWTSecret: testSecret})

	return handler, NewRouter(handler)
}

func bearer(t *testing.T, user string) string {
	t.Helper()
	token, err := session.Mint(testSecret, user, "cliente", time.Hour)
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	return "Bearer " + token
}

func TestHandleHealth(t *testing.T) {
	_, router := setupTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != "healthy" || resp.Products != 2 || resp.Ventures != 1 {
		t.Errorf("unexpected health %+v", resp)
	}
}

func TestHandleCatalog(t *testing.T) {
	_, router := setupTestHandler(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/productos", nil))

	var products []catalog.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(products) != 2 || !products[0].Precio.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("unexpected products %+v", products)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/emprendimientos", nil))

	var ventures []catalog.Venture
	if err := json.NewDecoder(w.Body).Decode(&ventures); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(ventures) != 1 {
		t.Errorf("unexpected ventures %+v", ventures)
	}
}

func TestHandleSuggest(t *testing.T) {
	_, router := setupTestHandler(t, nil)

	tests := []struct {
		name     string
		q        string
		products int
		ventures int
		owners   int
	}{
		{"accent insensitive", "panaderia", 1, 1, 1},
		{"owner name", "pazmino", 1, 1, 1},
		{"too short", "p", 0, 0, 0},
		{"no match", "zzz", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/search/suggest?q="+tt.q, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
			}

			var resp SuggestResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			s := resp.Sugerencias
			if len(s.Productos) != tt.products || len(s.Emprendimientos) != tt.ventures || len(s.Emprendedores) != tt.owners {
				t.Errorf("unexpected suggestions %+v", s)
			}
		})
	}
}

func TestHandleSuggestCacheHit(t *testing.T) {
	mem := cache.NewMemory()
	cached := catalog.SuggestionSet{Productos: []catalog.ProductSuggestion{{Nombre: "from cache"}}}
	if err := mem.Set(context.Background(), cache.Key("Pan"), cached, time.Minute); err != nil {
		t.Fatal(err)
	}

	_, router := setupTestHandler(t, mem)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search/suggest?q=pan", nil))

	var resp SuggestResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Sugerencias.Productos) != 1 || resp.Sugerencias.Productos[0].Nombre != "from cache" {
		t.Errorf("expected cached answer, got %+v", resp.Sugerencias)
	}

	// a miss is filled by the engine and written back
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search/suggest?q=cafe", nil))
	if _, err := mem.Get(context.Background(), cache.Key("cafe")); err != nil {
		t.Errorf("expected cache fill, got %v", err)
	}
}

func TestHandleSearch(t *testing.T) {
	_, router := setupTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=pan&types=productos&page=1&limit=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp catalog.SearchResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Query != "pan" || resp.Limit != 1 {
		t.Errorf("unexpected header %+v", resp)
	}
	if resp.Counts.Productos != 1 || len(resp.Results.Productos) != 1 {
		t.Errorf("unexpected products %+v", resp.Results.Productos)
	}
	if resp.Counts.Emprendimientos != 0 || len(resp.Results.Emprendimientos) != 0 {
		t.Errorf("ventures were not requested, got %+v", resp.Results.Emprendimientos)
	}
}

func TestHandleSearchBadPage(t *testing.T) {
	_, router := setupTestHandler(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search?q=pan&page=x", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestFavoritesRequireBearer(t *testing.T) {
	_, router := setupTestHandler(t, nil)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"garbage", "Bearer not-a-jwt"},
		{"wrong secret", func() string {
			tok, _ := session.Mint("other", "u1", "", time.Hour)
			return "Bearer " + tok
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/favoritos/mine", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", w.Code)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Code == "" {
				t.Error("expected an error code")
			}
		})
	}
}

func TestToggleValidation(t *testing.T) {
	_, router := setupTestHandler(t, nil)
	auth := bearer(t, "u1")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing item", `{"itemModel":"Producto"}`, http.StatusBadRequest},
		{"bad model", `{"itemId":"p1","itemModel":"Servicio"}`, http.StatusBadRequest},
		{"unknown item", `{"itemId":"nope","itemModel":"Producto"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/favoritos/toggle", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", auth)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

// Black-box flow: toggle on, list, toggle off
func TestFavoritesRoundTrip(t *testing.T) {
	_, router := setupTestHandler(t, nil)
	auth := bearer(t, "u1")

	toggle := func() catalog.ToggleResponse {
		body, _ := json.Marshal(catalog.ToggleRequest{ItemID: "v1", ItemModel: catalog.ItemVenture})
		req := httptest.NewRequest(http.MethodPost, "/api/favoritos/toggle", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", auth)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp catalog.ToggleResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return resp
	}

	mine := func() []catalog.Favorite {
		req := httptest.NewRequest(http.MethodGet, "/api/favoritos/mine", nil)
		req.Header.Set("Authorization", auth)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var favs []catalog.Favorite
		if err := json.NewDecoder(w.Body).Decode(&favs); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return favs
	}

	added := toggle()
	if added.Action != catalog.ActionAdded || added.Favorito == nil || added.Favorito.Meta.Nombre != "Panadería Ana" {
		t.Fatalf("unexpected add %+v", added)
	}
	if favs := mine(); len(favs) != 1 || favs[0].Item != "v1" {
		t.Fatalf("unexpected favorites %+v", favs)
	}

	if removed := toggle(); removed.Action != catalog.ActionRemoved {
		t.Fatalf("unexpected remove %+v", removed)
	}
	if favs := mine(); len(favs) != 0 {
		t.Errorf("expected no favorites, got %+v", favs)
	}
}
