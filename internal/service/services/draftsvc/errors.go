package draftsvc

import "errors"

var (
	ErrDraftNotFound     = errors.New("draft not found")
	ErrLineNotFound      = errors.New("line not found in draft")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidUnitPrice  = errors.New("unit price must not be negative")
	ErrInvalidAdjustment = errors.New("adjustments must not be negative")
	ErrInvalidSession    = errors.New("session must carry a store id")
	ErrEmptyDraft        = errors.New("draft has no lines, nothing to submit")
	ErrTotalsNotReady    = errors.New("totals are not reconciled yet")
	ErrPaymentMismatch   = errors.New("declared payments do not match the order total")
	ErrPaymentIncomplete = errors.New("cash and bank parts are both required for a split payment")
)
