// Package money keeps all ledger arithmetic in int64 cents. Quote prices
// arrive as decimal dollars and are converted exactly once at the boundary.
package money

import (
	"errors"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

// FromDecimal converts a dollar price to minor units. Prices with more
// than two decimal places are rejected rather than rounded so the ledger
// never drifts from what the provider quoted.
func FromDecimal(amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, ErrInvalidAmount
	}
	minor := amount.Mul(decimal.NewFromInt(100))
	if !minor.IsInteger() {
		return 0, ErrTooManyDecimals
	}
	if !minor.BigInt().IsInt64() {
		return 0, ErrInvalidAmount
	}
	return minor.IntPart(), nil
}

// ToDecimal is the inverse of FromDecimal.
func ToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// USD renders minor units for display, e.g. 123456 -> "$1,234.56".
func USD(minor int64) string {
	return gomoney.New(minor, gomoney.USD).Display()
}
