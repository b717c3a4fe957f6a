package domain

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal input that accepts JSON numbers or strings.
// Blank strings and null decode to zero, the way the calculator treats
// an empty field.
type Amount struct {
	decimal.Decimal
}

func NewAmount(value float64) Amount {
	return Amount{decimal.NewFromFloat(value)}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if s := strings.TrimSpace(strings.Trim(string(trimmed), `"`)); s == "" || s == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.UnmarshalJSON(trimmed)
}

// FormatMoney renders a currency value with two decimals.
func FormatMoney(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}
