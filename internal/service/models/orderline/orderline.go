package orderline

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is an archived line of a submitted order.
type OrderLine struct {
	ID             int64           `json:"id"`
	OrderID        int64           `json:"orderId"`
	ProductID      int64           `json:"productId"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
