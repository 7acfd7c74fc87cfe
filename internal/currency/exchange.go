package currency

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrMissingExchangeRate indicates that a conversion needed a rate the table does not hold.
	ErrMissingExchangeRate = errors.New("missing exchange rate")
	// ErrInvalidRate indicates a non-positive or non-finite exchange rate.
	ErrInvalidRate = errors.New("invalid exchange rate")
)

// MissingExchangeRateError names the currency whose rate was missing.
type MissingExchangeRateError struct {
	From Currency
	Base Currency
}

func (e *MissingExchangeRateError) Error() string {
	return fmt.Sprintf("missing exchange rate: no rate for %s against base %s", e.From, e.Base)
}

// Is makes errors.Is(err, ErrMissingExchangeRate) hold.
func (e *MissingExchangeRateError) Is(target error) bool {
	return target == ErrMissingExchangeRate
}

// Rates maps a non-base currency to how many units of it equal one unit of
// the base currency. With base EUR, Rates{USD: 1.19} means 1 EUR = 1.19 USD.
type Rates map[Currency]float64

// Set stores a rate after validating it.
func (r Rates) Set(c Currency, rate float64) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, string(c))
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fmt.Errorf("%w: %v for %s", ErrInvalidRate, rate, c)
	}
	r[c] = rate
	return nil
}

// Clone returns an independent copy of the table.
func (r Rates) Clone() Rates {
	out := make(Rates, len(r))
	for c, rate := range r {
		out[c] = rate
	}
	return out
}

// Supports reports whether amounts in c can be converted into base.
func (r Rates) Supports(c, base Currency) bool {
	if c == base {
		return true
	}
	_, ok := r[c]
	return ok
}

// Convert converts amount from the given currency into base. Amounts already
// in base are returned unchanged; otherwise the amount is divided by the
// stored rate.
func Convert(amount float64, from, base Currency, rates Rates) (float64, error) {
	if from == base {
		return amount, nil
	}
	rate, ok := rates[from]
	if !ok {
		return 0, &MissingExchangeRateError{From: from, Base: base}
	}
	return amount / rate, nil
}
