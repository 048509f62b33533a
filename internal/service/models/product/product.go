package product

import (
	"github.com/shopspring/decimal"
)

// Product represents a sellable catalog entry for a store/division.
type Product struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	SKU         string              `json:"sku"`
	Unit        string              `json:"unit"`
	BasePrice   decimal.Decimal     `json:"basePrice"`
	CustomPrice decimal.NullDecimal `json:"customPrice"`
	Stock       decimal.Decimal     `json:"stock"`
}

// DefaultUnitPrice returns the store-specific price when one is set,
// otherwise the catalog base price.
func (p Product) DefaultUnitPrice() decimal.Decimal {
	if p.CustomPrice.Valid {
		return p.CustomPrice.Decimal
	}

	return p.BasePrice
}
