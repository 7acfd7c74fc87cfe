// Package currency defines the supported currencies and conversion into a
// group's base currency.
package currency

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code from the fixed set the ledger supports.
type Currency string

// Supported currencies.
const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
	CHF Currency = "CHF"
	JPY Currency = "JPY"
	SEK Currency = "SEK"
	NOK Currency = "NOK"
	DKK Currency = "DKK"
	PLN Currency = "PLN"
	CZK Currency = "CZK"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
)

var supported = []Currency{EUR, USD, GBP, CHF, JPY, SEK, NOK, DKK, PLN, CZK, CAD, AUD}

var (
	// ErrUnknownCurrency indicates a code outside the supported set.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrInvalidAmount indicates an amount that is negative, NaN or infinite.
	ErrInvalidAmount = errors.New("invalid amount")
)

// All returns the supported currencies in a fixed order.
func All() []Currency {
	out := make([]Currency, len(supported))
	copy(out, supported)
	return out
}

// Parse returns the currency for a code. Matching is case-insensitive.
func Parse(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return c, nil
}

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	for _, s := range supported {
		if c == s {
			return true
		}
	}
	return false
}

func (c Currency) String() string {
	return string(c)
}

// ParseAmount parses a decimal string such as "12.50" into a non-negative amount.
func ParseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	f, _ := d.Float64()
	return f, nil
}

// FormatAmount renders an amount with two decimals followed by the currency code.
func FormatAmount(amount float64, c Currency) string {
	return decimal.NewFromFloat(amount).StringFixed(2) + " " + string(c)
}

// CheckAmount returns ErrInvalidAmount for negative or non-finite amounts.
func CheckAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return nil
}
