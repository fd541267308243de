package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryElectronics Category = "electronica"
	CategoryClothing    Category = "ropa"
	CategoryFood        Category = "alimentos"
	CategoryHome        Category = "hogar"
	CategoryOffice      Category = "oficina"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryFood, CategoryHome, CategoryOffice:
		return true
	}
	return false
}

type Product struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	Descripcion   string          `json:"descripcion,omitempty"`
	Precio        decimal.Decimal `json:"precio"`
	Stock         int             `json:"stock"`
	Categoria     Category        `json:"categoria"`
	SKU           string          `json:"sku"`
	Activo        bool            `json:"activo"`
	FechaCreacion time.Time       `json:"fecha_creacion"`
}

type ProductCreate struct {
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion,omitempty"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	Categoria   Category        `json:"categoria"`
	SKU         string          `json:"sku"`
}

// ProductUpdate is a partial update: nil fields are left untouched.
// The stock field is also the decrement write used by the sales service.
type ProductUpdate struct {
	Nombre      *string          `json:"nombre,omitempty"`
	Descripcion *string          `json:"descripcion,omitempty"`
	Precio      *decimal.Decimal `json:"precio,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Categoria   *Category        `json:"categoria,omitempty"`
}

func (u ProductUpdate) Empty() bool {
	return u.Nombre == nil && u.Descripcion == nil && u.Precio == nil &&
		u.Stock == nil && u.Categoria == nil
}
