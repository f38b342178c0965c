package search

import (
	"strings"

	"github.com/dsjohal14/quitoemprende/internal/libs/textnorm"
	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
)

const (
	defaultLimit = 20
	maxLimit     = 100

	// DefaultSuggestLimit is the per-bucket size of a suggest answer
	DefaultSuggestLimit = 6
)

// Bucket names accepted in the types parameter
const (
	TypeProducts = "productos"
	TypeVentures = "emprendimientos"
	TypeOwners   = "emprendedores"
)

// AllTypes lists every bucket in response order
var AllTypes = []string{TypeProducts, TypeVentures, TypeOwners}

// SnapshotProvider supplies the catalog an Engine searches
type SnapshotProvider interface {
	Snapshot() catalog.Snapshot
}

// Engine answers suggest and search requests over a catalog snapshot
type Engine struct {
	provider SnapshotProvider
}

// NewEngine creates a new search engine over the given provider
func NewEngine(provider SnapshotProvider) *Engine {
	return &Engine{provider: provider}
}

// Query describes a paginated search
type Query struct {
	Text  string
	Types []string
	Page  int
	Limit int
}

// Normalize applies default and max limits and drops unknown types
func (q *Query) Normalize() {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Page < 1 {
		q.Page = 1
	}
	q.Types = ParseTypes(strings.Join(q.Types, ","))
}

// ParseTypes parses a comma separated bucket list; empty or unknown-only means all
func ParseTypes(raw string) []string {
	wanted := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		wanted[strings.ToLower(strings.TrimSpace(t))] = true
	}

	types := make([]string, 0, len(AllTypes))
	for _, t := range AllTypes {
		if wanted[t] {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return append(types, AllTypes...)
	}
	return types
}

// matchAll runs the matchers over the whole snapshot without caps
func (e *Engine) matchAll(q string) Matches {
	snap := e.provider.Snapshot()
	m := Matches{}

	for _, p := range snap.Products {
		if MatchProduct(p, q) {
			m.Products = append(m.Products, p)
		}
	}
	for _, v := range snap.Ventures {
		if MatchVenture(v, q) {
			m.Ventures = append(m.Ventures, v)
		}
	}
	m.Owners = e.matchOwners(snap, q)

	return m
}

// matchOwners finds owners whose name, email or venture matches
func (e *Engine) matchOwners(snap catalog.Snapshot, q string) []catalog.Owner {
	matched := make([]catalog.Venture, 0)
	for _, v := range snap.Ventures {
		if v.Emprendedor == nil {
			continue
		}
		o := v.Emprendedor
		if textnorm.Contains(o.FullName(), q) || textnorm.Contains(o.Email, q) || textnorm.Contains(v.NombreComercial, q) {
			matched = append(matched, v)
		}
	}
	return OwnersOf(matched, 0)
}

// Suggest returns up to limit suggestions per bucket
func (e *Engine) Suggest(text string, limit int) catalog.SuggestionSet {
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	q := textnorm.Query(text)
	if q == "" {
		return Matches{}.AsSuggestions()
	}

	m := e.matchAll(q)
	m.Products = head(m.Products, limit)
	m.Ventures = head(m.Ventures, limit)
	m.Owners = head(m.Owners, limit)

	return m.AsSuggestionsFrom(e.provider.Snapshot())
}

// AsSuggestionsFrom is AsSuggestions with owner venture names looked up in the full snapshot
func (m Matches) AsSuggestionsFrom(snap catalog.Snapshot) catalog.SuggestionSet {
	set := m.AsSuggestions()
	ventureOf := make(map[string]string)
	for _, v := range snap.Ventures {
		if v.Emprendedor == nil {
			continue
		}
		if _, ok := ventureOf[v.Emprendedor.ID]; !ok {
			ventureOf[v.Emprendedor.ID] = v.NombreComercial
		}
	}
	for i := range set.Emprendedores {
		if set.Emprendedores[i].EmpNombreComercial == "" {
			set.Emprendedores[i].EmpNombreComercial = ventureOf[set.Emprendedores[i].ID]
		}
	}
	return set
}

// Search returns one page of each requested bucket with full match counts
func (e *Engine) Search(q Query) catalog.SearchResult {
	q.Normalize()

	result := catalog.SearchResult{
		Query: q.Text,
		Page:  q.Page,
		Limit: q.Limit,
		Results: catalog.Buckets{
			Productos:       []catalog.Product{},
			Emprendimientos: []catalog.Venture{},
			Emprendedores:   []catalog.Owner{},
		},
	}

	needle := textnorm.Query(q.Text)
	if needle == "" {
		return result
	}

	m := e.matchAll(needle)
	offset := (q.Page - 1) * q.Limit

	for _, t := range q.Types {
		switch t {
		case TypeProducts:
			result.Counts.Productos = len(m.Products)
			result.Results.Productos = page(m.Products, offset, q.Limit)
		case TypeVentures:
			result.Counts.Emprendimientos = len(m.Ventures)
			result.Results.Emprendimientos = page(m.Ventures, offset, q.Limit)
		case TypeOwners:
			result.Counts.Emprendedores = len(m.Owners)
			result.Results.Emprendedores = page(m.Owners, offset, q.Limit)
		}
	}

	return result
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
