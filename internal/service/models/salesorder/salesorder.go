package salesorder

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailworks/backoffice/internal/service/models/orderline"
	"github.com/retailworks/backoffice/internal/service/models/payment"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(v string) (Status, error) {
	switch v {
	case StatusSubmitted.String():
		return StatusSubmitted, nil
	case StatusConfirmed.String():
		return StatusConfirmed, nil
	case StatusCancelled.String():
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

// SalesOrder is a submitted order as archived in the local back-office store.
type SalesOrder struct {
	ID             int64                 `json:"id"`
	OrderCode      string                `json:"orderCode"`
	StoreID        int64                 `json:"storeId"`
	DivisionID     int64                 `json:"divisionId"`
	CustomerID     int64                 `json:"customerId"`
	Status         Status                `json:"status"`
	Notes          string                `json:"notes,omitempty"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	Tax            decimal.Decimal       `json:"tax"`
	DiscountAmount decimal.Decimal       `json:"discountAmount"`
	FreightCharges decimal.Decimal       `json:"freightCharges"`
	Total          decimal.Decimal       `json:"total"`
	Payments       []payment.Record      `json:"payments"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
	Lines          []orderline.OrderLine `json:"lines"`
}
