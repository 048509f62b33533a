package draft

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailworks/backoffice/internal/service/models/lineitem"
)

// SessionContext identifies the store/division an order-creation session
// belongs to. It is passed in explicitly at draft creation; computation code
// never reads it from ambient state.
type SessionContext struct {
	StoreID    int64 `json:"storeId"`
	DivisionID int64 `json:"divisionId"`
	CustomerID int64 `json:"customerId,omitempty"`
}

// Adjustments are order-level charges, independent of per-line discounts.
type Adjustments struct {
	FreightCharges decimal.Decimal `json:"freightCharges"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// Totals is the authoritative figure set returned by the reconciliation
// backend for the current lines and adjustments.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FreightCharges decimal.Decimal `json:"freightCharges"`
	Total          decimal.Decimal `json:"total"`
}

// TotalsRequest is the preview-calculation input derived from a draft.
type TotalsRequest struct {
	Items          []TotalsRequestItem `json:"items"`
	DiscountAmount decimal.Decimal     `json:"discountAmount"`
	FreightCharges decimal.Decimal     `json:"freightCharges"`
}

type TotalsRequestItem struct {
	ProductID      int64           `json:"productId"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// LineView is the reviewable form of a line item.
type LineView struct {
	lineitem.LineItem
	DisplayTotal decimal.Decimal `json:"displayTotal"`
	Overridden   bool            `json:"overridden"`
}

// Snapshot is the full reviewable state of a draft, handed to the UI for
// rendering and to the submission flow for assembly. Pure data, derived
// fresh on every read.
type Snapshot struct {
	ID          uuid.UUID       `json:"id"`
	Session     SessionContext  `json:"session"`
	Lines       []LineView      `json:"lines"`
	Adjustments Adjustments     `json:"adjustments"`
	Totals      *Totals         `json:"totals,omitempty"`
	TotalsStale bool            `json:"totalsStale"`
	TotalBags   decimal.Decimal `json:"totalBags"`
	GrandTotal  decimal.Decimal `json:"grandTotal"`
}
