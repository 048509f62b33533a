package payment

import (
	"database/sql/driver"
	"errors"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCash Method = "cash"
	MethodBank Method = "bank"
	MethodBoth Method = "both"
)

var ErrInvalidMethod = errors.New("invalid payment method")

func (m Method) String() string {
	return string(m)
}

func (m Method) Value() (driver.Value, error) {
	return m.String(), nil
}

func ParseMethod(s string) (Method, error) {
	switch s {
	case MethodCash.String():
		return MethodCash, nil
	case MethodBank.String():
		return MethodBank, nil
	case MethodBoth.String():
		return MethodBoth, nil
	default:
		return "", ErrInvalidMethod
	}
}

// Record is a single declared payment against a submitted order. For the
// "both" method the cash and bank parts are carried separately and Amount is
// ignored; otherwise Amount is the single figure the UI fills in.
type Record struct {
	Method     Method          `json:"method"`
	Amount     decimal.Decimal `json:"amount"`
	CashAmount decimal.Decimal `json:"cashAmount"`
	BankAmount decimal.Decimal `json:"bankAmount"`
}

// Declared returns the total this record contributes to the payment sum.
func (r Record) Declared() decimal.Decimal {
	if r.Method == MethodBoth {
		return r.CashAmount.Add(r.BankAmount)
	}

	return r.Amount
}
