// Package search provides catalog matching for QuitoEmprende: the in-memory local
// matcher used for short queries and the engine behind the dev API server.
package search

import (
	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
)

// LocalLimit caps every local bucket
const LocalLimit = 12

// Matches holds the local matcher output
type Matches struct {
	Products []catalog.Product
	Ventures []catalog.Venture
	// Owners are derived from the matched ventures only
	Owners []catalog.Owner
}

// Local filters the catalog by substring containment of the normalized query.
// Order of appearance is kept, there is no ranking. Callers searching the same
// catalog repeatedly should build an Index once instead.
func Local(query string, products []catalog.Product, ventures []catalog.Venture) Matches {
	return NewIndex(catalog.Snapshot{Products: products, Ventures: ventures}).Match(query)
}

// MatchProduct checks name, description, venture name and owner full name
// against an already normalized query
func MatchProduct(p catalog.Product, q string) bool {
	return containsAny(productKeys(p), q)
}

// MatchVenture checks commercial name, description, city and owner full name
// against an already normalized query
func MatchVenture(v catalog.Venture, q string) bool {
	return containsAny(ventureKeys(v), q)
}

// OwnersOf collects unique owners of ventures in first-seen order
func OwnersOf(ventures []catalog.Venture, limit int) []catalog.Owner {
	seen := make(map[string]bool)
	owners := make([]catalog.Owner, 0)

	for _, v := range ventures {
		if limit > 0 && len(owners) >= limit {
			break
		}
		if v.Emprendedor == nil || v.Emprendedor.ID == "" {
			continue
		}
		if seen[v.Emprendedor.ID] {
			continue
		}
		seen[v.Emprendedor.ID] = true
		owners = append(owners, *v.Emprendedor)
	}

	return owners
}

// AsResult shapes local matches like a remote search result (page 1)
func (m Matches) AsResult(query string) catalog.SearchResult {
	return catalog.SearchResult{
		Query: query,
		Page:  1,
		Limit: LocalLimit,
		Results: catalog.Buckets{
			Productos:       m.Products,
			Emprendimientos: m.Ventures,
			Emprendedores:   m.Owners,
		},
		Counts: catalog.Counts{
			Productos:       len(m.Products),
			Emprendimientos: len(m.Ventures),
			Emprendedores:   len(m.Owners),
		},
	}
}

// AsSuggestions trims local matches down to dropdown records
func (m Matches) AsSuggestions() catalog.SuggestionSet {
	set := catalog.SuggestionSet{
		Productos:       make([]catalog.ProductSuggestion, 0, len(m.Products)),
		Emprendimientos: make([]catalog.VentureSuggestion, 0, len(m.Ventures)),
		Emprendedores:   make([]catalog.OwnerSuggestion, 0, len(m.Owners)),
	}

	for _, p := range m.Products {
		set.Productos = append(set.Productos, catalog.ProductSuggestionFrom(p))
	}

	ventureOf := make(map[string]string)
	for _, v := range m.Ventures {
		set.Emprendimientos = append(set.Emprendimientos, catalog.VentureSuggestionFrom(v))
		if v.Emprendedor != nil {
			if _, ok := ventureOf[v.Emprendedor.ID]; !ok {
				ventureOf[v.Emprendedor.ID] = v.NombreComercial
			}
		}
	}

	for _, o := range m.Owners {
		set.Emprendedores = append(set.Emprendedores, catalog.OwnerSuggestionFrom(o, ventureOf[o.ID]))
	}

	return set
}
