package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SuggestionKind discriminates the suggestion buckets
type SuggestionKind string

const (
	KindProduct SuggestionKind = "producto"
	KindVenture SuggestionKind = "emprendimiento"
	KindOwner   SuggestionKind = "emprendedor"
)

// ProductSuggestion is the lightweight product record shown in the dropdown
type ProductSuggestion struct {
	ID     string          `json:"_id,omitempty"`
	Nombre string          `json:"nombre"`
	Precio decimal.Decimal `json:"precio"`
	Imagen string          `json:"imagen,omitempty"`
}

// VentureSuggestion is the lightweight venture record shown in the dropdown
type VentureSuggestion struct {
	ID              string `json:"_id,omitempty"`
	NombreComercial string `json:"nombreComercial"`
	Slug            string `json:"slug,omitempty"`
}

// OwnerSuggestion is the lightweight owner record shown in the dropdown
type OwnerSuggestion struct {
	ID                 string `json:"_id,omitempty"`
	Nombre             string `json:"nombre,omitempty"`
	Apellido           string `json:"apellido,omitempty"`
	Email              string `json:"email,omitempty"`
	EmpNombreComercial string `json:"empNombreComercial,omitempty"`
}

// SuggestionSet is replaced wholesale on every successful suggest call
type SuggestionSet struct {
	Productos       []ProductSuggestion `json:"productos"`
	Emprendimientos []VentureSuggestion `json:"emprendimientos"`
	Emprendedores   []OwnerSuggestion   `json:"emprendedores"`
}

// Len returns the number of suggestions across all buckets
func (s SuggestionSet) Len() int {
	return len(s.Productos) + len(s.Emprendimientos) + len(s.Emprendedores)
}

// Suggestion is one entry of the flattened dropdown list
type Suggestion struct {
	Kind SuggestionKind
	// Index is the position inside the suggestion's own bucket
	Index int
	Label string
	// Query is the text a selection re-queries with
	Query string
}

// Flatten lists products, then ventures, then owners
func (s SuggestionSet) Flatten() []Suggestion {
	out := make([]Suggestion, 0, s.Len())
	for i, p := range s.Productos {
		out = append(out, Suggestion{Kind: KindProduct, Index: i, Label: p.Nombre, Query: p.Nombre})
	}
	for i, v := range s.Emprendimientos {
		out = append(out, Suggestion{Kind: KindVenture, Index: i, Label: v.NombreComercial, Query: v.NombreComercial})
	}
	for i, o := range s.Emprendedores {
		q := o.QueryText()
		label := q
		if o.EmpNombreComercial != "" {
			label = q + " · " + o.EmpNombreComercial
		}
		out = append(out, Suggestion{Kind: KindOwner, Index: i, Label: label, Query: q})
	}
	return out
}

// QueryText is the owner's full name, or the email when no name is known
func (o OwnerSuggestion) QueryText() string {
	if name := strings.TrimSpace(o.Nombre + " " + o.Apellido); name != "" {
		return name
	}
	return o.Email
}

// ProductSuggestionFrom trims a product down to its suggestion record
func ProductSuggestionFrom(p Product) ProductSuggestion {
	return ProductSuggestion{ID: p.ID, Nombre: p.Nombre, Precio: p.Precio, Imagen: p.Imagen}
}

// VentureSuggestionFrom trims a venture down to its suggestion record
func VentureSuggestionFrom(v Venture) VentureSuggestion {
	return VentureSuggestion{ID: v.ID, NombreComercial: v.NombreComercial, Slug: v.Slug}
}

// OwnerSuggestionFrom builds an owner suggestion, tagging it with a venture name when known
func OwnerSuggestionFrom(o Owner, ventureName string) OwnerSuggestion {
	return OwnerSuggestion{
		ID:                 o.ID,
		Nombre:             o.Nombre,
		Apellido:           o.Apellido,
		Email:              o.Email,
		EmpNombreComercial: ventureName,
	}
}
