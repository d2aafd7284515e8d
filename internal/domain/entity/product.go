package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogKind separates the spreadsheet-backed catalogs stored in the products table.
type CatalogKind string

const (
	KindProduce CatalogKind = "produce"
	KindSeed    CatalogKind = "seed"
)

// Valid reports whether k is a known catalog.
func (k CatalogKind) Valid() bool {
	return k == KindProduce || k == KindSeed
}

// Product is a persisted catalog entry.
//
// Name is the join key against spreadsheet rows (unique per Kind). ID never changes once created.
// Products are never deleted: one that disappears from the sheet is kept with Quantity 0 so
// order items referencing it stay valid.
type Product struct {
	ID                   string
	Kind                 CatalogKind
	Name                 string
	ImageURL             string
	Price                decimal.Decimal
	Quantity             int
	Category             string
	Description          string
	PlantingInstructions string // seeds only
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// InStock reports whether the product is currently sellable.
func (p *Product) InStock() bool {
	return p.Quantity > 0
}
