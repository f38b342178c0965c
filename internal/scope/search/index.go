package search

import (
	"strings"

	"github.com/dsjohal14/quitoemprende/internal/libs/textnorm"
	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
)

// Index is a catalog snapshot with its matchable fields normalized up front,
// so repeated local searches over the same snapshot only fold the query
type Index struct {
	products    []catalog.Product
	ventures    []catalog.Venture
	productKeys [][]string
	ventureKeys [][]string
}

// NewIndex folds every matchable field of snap once
func NewIndex(snap catalog.Snapshot) *Index {
	x := &Index{
		products:    snap.Products,
		ventures:    snap.Ventures,
		productKeys: make([][]string, len(snap.Products)),
		ventureKeys: make([][]string, len(snap.Ventures)),
	}
	for i, p := range snap.Products {
		x.productKeys[i] = productKeys(p)
	}
	for i, v := range snap.Ventures {
		x.ventureKeys[i] = ventureKeys(v)
	}
	return x
}

// Match runs the local matcher against the indexed snapshot
func (x *Index) Match(query string) Matches {
	q := textnorm.Query(query)

	m := Matches{
		Products: make([]catalog.Product, 0),
		Ventures: make([]catalog.Venture, 0),
		Owners:   make([]catalog.Owner, 0),
	}

	for i, p := range x.products {
		if len(m.Products) >= LocalLimit {
			break
		}
		if containsAny(x.productKeys[i], q) {
			m.Products = append(m.Products, p)
		}
	}

	for i, v := range x.ventures {
		if len(m.Ventures) >= LocalLimit {
			break
		}
		if containsAny(x.ventureKeys[i], q) {
			m.Ventures = append(m.Ventures, v)
		}
	}

	m.Owners = OwnersOf(m.Ventures, LocalLimit)
	return m
}

// Len returns the number of indexed products and ventures
func (x *Index) Len() int {
	return len(x.products) + len(x.ventures)
}

func productKeys(p catalog.Product) []string {
	fields := []string{p.Nombre, p.Descripcion, p.VentureName()}
	if o := p.OwnerRef(); o != nil {
		fields = append(fields, o.FullName())
	}
	return foldAll(fields)
}

func ventureKeys(v catalog.Venture) []string {
	fields := []string{v.NombreComercial, v.Descripcion, v.Ubicacion.Ciudad}
	if v.Emprendedor != nil {
		fields = append(fields, v.Emprendedor.FullName())
	}
	return foldAll(fields)
}

// foldAll normalizes fields, dropping empty ones
func foldAll(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		out = append(out, textnorm.Normalize(f))
	}
	return out
}

func containsAny(keys []string, q string) bool {
	if q == "" {
		return true
	}
	for _, k := range keys {
		if strings.Contains(k, q) {
			return true
		}
	}
	return false
}
