package lineitem

import (
	"github.com/shopspring/decimal"
)

// Amount is a line total that is either computed by the draft or explicitly
// overridden by the operator. Precedence is carried by the tag, so display
// logic never has to guess from presence checks.
type Amount struct {
	value      decimal.Decimal
	overridden bool
}

// Computed returns an amount derived by the draft itself.
func Computed(v decimal.Decimal) Amount {
	return Amount{value: v}
}

// Overridden returns an amount fixed by the operator.
func Overridden(v decimal.Decimal) Amount {
	return Amount{value: v, overridden: true}
}

func (a Amount) Value() decimal.Decimal {
	return a.value
}

func (a Amount) IsOverridden() bool {
	return a.overridden
}

// LineItem represents one sellable product inside an order draft.
type LineItem struct {
	ProductID      int64           `json:"productId"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`

	// FinalAmount is the displayed line total. It is recomputed on every
	// mutation and on every reconciliation unless the operator overrode it.
	FinalAmount Amount `json:"-"`

	// AllocatedTax is this line's share of the reconciled total tax. Reset
	// whenever the line is edited, repopulated by the next reconciliation.
	AllocatedTax decimal.Decimal `json:"allocatedTax"`
}

// BaseTotal is quantity*unitPrice - discountAmount, before tax allocation.
func (li LineItem) BaseTotal() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice).Sub(li.DiscountAmount)
}

// Patch carries a partial update of a line. Nil fields are left untouched.
type Patch struct {
	Quantity       *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice      *decimal.Decimal `json:"unitPrice,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discountAmount,omitempty"`

	// FinalAmount sets an operator override of the displayed line total.
	// ClearFinalAmount removes it, letting the computed value reappear.
	FinalAmount      *decimal.Decimal `json:"finalAmount,omitempty"`
	ClearFinalAmount bool             `json:"clearFinalAmount,omitempty"`
}
