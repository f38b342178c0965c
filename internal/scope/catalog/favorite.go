package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemKind tells which catalog a favorited id belongs to
type ItemKind string

const (
	ItemProduct ItemKind = "Producto"
	ItemVenture ItemKind = "Emprendimiento"
)

// Valid reports whether k is a known item kind
func (k ItemKind) Valid() bool {
	return k == ItemProduct || k == ItemVenture
}

// FavoriteMeta is the display snapshot captured when an item is favorited
type FavoriteMeta struct {
	Nombre      string          `json:"nombre,omitempty"`
	Descripcion string          `json:"descripcion,omitempty"`
	Precio      decimal.Decimal `json:"precio"`
	Imagen      string          `json:"imagen,omitempty"`
	Slug        string          `json:"slug,omitempty"`
}

// Favorite is a favorite record; the server copy is authoritative
type Favorite struct {
	ID        string       `json:"_id,omitempty"`
	Item      string       `json:"item"`
	ItemModel ItemKind     `json:"itemModel"`
	Meta      FavoriteMeta `json:"meta"`
	Activo    bool         `json:"activo"`
}

// UnmarshalJSON accepts item as a plain id or as a populated record with an _id
func (f *Favorite) UnmarshalJSON(data []byte) error {
	type alias Favorite
	aux := struct {
		Item json.RawMessage `json:"item"`
		*alias
	}{alias: (*alias)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Item)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		f.Item = ""
	case raw[0] == '"':
		return json.Unmarshal(raw, &f.Item)
	case raw[0] == '{':
		var ref struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(raw, &ref); err != nil {
			return err
		}
		f.Item = ref.ID
	default:
		return fmt.Errorf("favorite item: unexpected JSON %s", raw)
	}
	return nil
}

// ToggleAction is the server's verdict for a toggle
type ToggleAction string

const (
	ActionAdded   ToggleAction = "added"
	ActionRemoved ToggleAction = "removed"
)

// ToggleRequest is the body of POST /api/favoritos/toggle
type ToggleRequest struct {
	ItemID    string       `json:"itemId" validate:"required"`
	ItemModel ItemKind     `json:"itemModel" validate:"required,oneof=Producto Emprendimiento"`
	Meta      FavoriteMeta `json:"meta"`
}

// ToggleResponse is the server's answer to a toggle
type ToggleResponse struct {
	Action   ToggleAction `json:"action"`
	Favorito *Favorite    `json:"favorito,omitempty"`
}

// MetaFromProduct captures the favorite snapshot of a product
func MetaFromProduct(p Product) FavoriteMeta {
	return FavoriteMeta{Nombre: p.Nombre, Descripcion: p.Descripcion, Precio: p.Precio, Imagen: p.Imagen}
}

// MetaFromVenture captures the favorite snapshot of a venture
func MetaFromVenture(v Venture) FavoriteMeta {
	return FavoriteMeta{Nombre: v.NombreComercial, Descripcion: v.Descripcion, Imagen: v.Logo, Slug: v.Slug}
}
