// Package catalog holds the marketplace records shared by the search and favorites clients:
// products, ventures (emprendimientos), their owners (emprendedores), and the favorite records.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Owner is an entrepreneur (emprendedor) that owns ventures and products
type Owner struct {
	ID       string `json:"_id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido,omitempty"`
	Email    string `json:"email,omitempty"`
}

// FullName joins first and last name
func (o Owner) FullName() string {
	return strings.TrimSpace(o.Nombre + " " + o.Apellido)
}

// Location is the venture address
type Location struct {
	Direccion string `json:"direccion,omitempty"`
	Ciudad    string `json:"ciudad,omitempty"`
}

// VentureRef is the venture summary embedded in a product
type VentureRef struct {
	ID              string `json:"_id"`
	NombreComercial string `json:"nombreComercial"`
	Emprendedor     *Owner `json:"emprendedor,omitempty"`
}

// Product is a catalog product sold by a venture
type Product struct {
	ID             string          `json:"_id"`
	Nombre         string          `json:"nombre"`
	Descripcion    string          `json:"descripcion,omitempty"`
	Precio         decimal.Decimal `json:"precio"`
	Imagen         string          `json:"imagen,omitempty"`
	Categoria      string          `json:"categoria,omitempty"`
	Emprendimiento *VentureRef     `json:"emprendimiento,omitempty"`
	Emprendedor    *Owner          `json:"emprendedor,omitempty"`
}

// OwnerRef returns the product's owner, falling back to the venture's owner
func (p Product) OwnerRef() *Owner {
	if p.Emprendedor != nil {
		return p.Emprendedor
	}
	if p.Emprendimiento != nil {
		return p.Emprendimiento.Emprendedor
	}
	return nil
}

// VentureName returns the commercial name of the owning venture, if any
func (p Product) VentureName() string {
	if p.Emprendimiento == nil {
		return ""
	}
	return p.Emprendimiento.NombreComercial
}

// Venture is an entrepreneurship listed in the catalog
type Venture struct {
	ID              string   `json:"_id"`
	NombreComercial string   `json:"nombreComercial"`
	Descripcion     string   `json:"descripcion,omitempty"`
	Logo            string   `json:"logo,omitempty"`
	Categoria       string   `json:"categoria,omitempty"`
	Slug            string   `json:"slug,omitempty"`
	Ubicacion       Location `json:"ubicacion,omitempty"`
	Emprendedor     *Owner   `json:"emprendedor,omitempty"`
}

// Snapshot is a read-only copy of the catalog taken once per session
type Snapshot struct {
	Products []Product
	Ventures []Venture
}

// Len returns the number of items in the snapshot
func (s Snapshot) Len() int {
	return len(s.Products) + len(s.Ventures)
}

// Buckets holds the three result collections returned by a search
type Buckets struct {
	Productos       []Product `json:"productos"`
	Emprendimientos []Venture `json:"emprendimientos"`
	Emprendedores   []Owner   `json:"emprendedores"`
}

// Counts holds the total matches per bucket
type Counts struct {
	Productos       int `json:"productos"`
	Emprendimientos int `json:"emprendimientos"`
	Emprendedores   int `json:"emprendedores"`
}

// Total sums all buckets
func (c Counts) Total() int {
	return c.Productos + c.Emprendimientos + c.Emprendedores
}

// SearchResult is the full result of one search; it is never mutated after it is received
type SearchResult struct {
	Query   string  `json:"query"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
	Results Buckets `json:"results"`
	Counts  Counts  `json:"counts"`
}

// Empty reports whether the result has no items in any bucket
func (r SearchResult) Empty() bool {
	return len(r.Results.Productos) == 0 &&
		len(r.Results.Emprendimientos) == 0 &&
		len(r.Results.Emprendedores) == 0
}
