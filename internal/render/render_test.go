package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
	"github.com/dsjohal14/quitoemprende/internal/searchctl"
	"github.com/shopspring/decimal"
)

func TestRenderDropdown(t *testing.T) {
	var buf bytes.Buffer
	term := New(&buf)

	set := catalog.SuggestionSet{
		Productos:     []catalog.ProductSuggestion{{Nombre: "Pan artesanal"}},
		Emprendedores: []catalog.OwnerSuggestion{{Nombre: "Ana", Apellido: "Pazmiño", EmpNombreComercial: "Tejidos"}},
	}
	term.Render(searchctl.Snapshot{
		Phase:       searchctl.PhaseSuggesting,
		Query:       "pan",
		Open:        true,
		Suggestions: set,
		Flat:        set.Flatten(),
		Active:      1,
	})

	out := buf.String()
	for _, want := range []string{"search: pan", "[suggesting]", "Pan artesanal", "> ", "Ana Pazmiño · Tejidos", "(emprendedor)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderResults(t *testing.T) {
	tests := []struct {
		name string
		snap searchctl.Snapshot
		want []string
	}{
		{
			name: "buckets",
			snap: searchctl.Snapshot{
				Phase: searchctl.PhaseResults,
				Query: "pan",
				Results: &catalog.SearchResult{
					Query: "pan",
					Results: catalog.Buckets{
						Productos: []catalog.Product{{
							Nombre:         "Pan de yuca",
							Precio:         decimal.RequireFromString("1.5"),
							Emprendimiento: &catalog.VentureRef{NombreComercial: "Panadería Sol"},
						}},
						Emprendimientos: []catalog.Venture{{NombreComercial: "Panadería Sol", Ubicacion: catalog.Location{Ciudad: "Quito"}}},
					},
					Counts: catalog.Counts{Productos: 4, Emprendimientos: 1},
				},
			},
			want: []string{"Productos (4)", "Pan de yuca", "$1.50", "Emprendimientos (1)", "Quito"},
		},
		{
			name: "empty",
			snap: searchctl.Snapshot{Phase: searchctl.PhaseResults, Results: &catalog.SearchResult{Query: "zzz"}},
			want: []string{`no results for "zzz"`},
		},
		{
			name: "error",
			snap: searchctl.Snapshot{Phase: searchctl.PhaseResults, SearchError: errors.New("boom")},
			want: []string{"search failed: boom"},
		},
		{
			name: "searching",
			snap: searchctl.Snapshot{Phase: searchctl.PhaseResults, Searching: true},
			want: []string{"searching..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf).Render(tt.snap)

			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRenderFavorites(t *testing.T) {
	var buf bytes.Buffer
	term := New(&buf)

	term.Favorites(nil)
	term.Favorites([]catalog.Favorite{
		{Item: "p1", ItemModel: catalog.ItemProduct, Meta: catalog.FavoriteMeta{Nombre: "Pan"}},
		{Item: "v1", ItemModel: catalog.ItemVenture},
	})

	out := buf.String()
	for _, want := range []string{"no favorites yet", "* Pan", "Producto p1", "* v1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
