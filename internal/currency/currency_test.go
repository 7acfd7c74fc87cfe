package currency

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, err := Parse("usd")
	require.NoError(t, err)
	assert.Equal(t, USD, c)

	c, err = Parse(" EUR ")
	require.NoError(t, err)
	assert.Equal(t, EUR, c)

	_, err = Parse("XYZ")
	assert.ErrorIs(t, err, ErrUnknownCurrency)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestAllIsACopy(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	all[0] = "XXX"
	assert.Equal(t, EUR, All()[0])
}

func TestConvert(t *testing.T) {
	rates := Rates{USD: 1.19}

	t.Run("base currency is returned unchanged", func(t *testing.T) {
		got, err := Convert(42.5, EUR, EUR, rates)
		require.NoError(t, err)
		assert.Equal(t, 42.5, got)
	})

	t.Run("foreign amount is divided by the rate", func(t *testing.T) {
		got, err := Convert(119, USD, EUR, rates)
		require.NoError(t, err)
		assert.InDelta(t, 100.0, got, 1e-9)
	})

	t.Run("missing rate", func(t *testing.T) {
		_, err := Convert(10, GBP, EUR, rates)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingExchangeRate)

		var missing *MissingExchangeRateError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, GBP, missing.From)
		assert.Equal(t, EUR, missing.Base)
	})
}

func TestRatesSet(t *testing.T) {
	rates := Rates{}
	require.NoError(t, rates.Set(USD, 1.1))
	assert.Equal(t, 1.1, rates[USD])

	assert.ErrorIs(t, rates.Set(USD, 0), ErrInvalidRate)
	assert.ErrorIs(t, rates.Set(USD, -2), ErrInvalidRate)
	assert.ErrorIs(t, rates.Set(USD, math.Inf(1)), ErrInvalidRate)
	assert.ErrorIs(t, rates.Set("ABC", 1), ErrUnknownCurrency)

	clone := rates.Clone()
	clone[GBP] = 0.8
	_, ok := rates[GBP]
	assert.False(t, ok)

	assert.True(t, rates.Supports(EUR, EUR))
	assert.True(t, rates.Supports(USD, EUR))
	assert.False(t, rates.Supports(GBP, EUR))
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("12.50")
	require.NoError(t, err)
	assert.Equal(t, 12.5, got)

	got, err = ParseAmount("0")
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = ParseAmount("-1")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("twelve")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "50.00 EUR", FormatAmount(50, EUR))
	assert.Equal(t, "33.33 USD", FormatAmount(100.0/3, USD))
	assert.Equal(t, "-12.10 GBP", FormatAmount(-12.1, GBP))
}

func TestCheckAmount(t *testing.T) {
	assert.NoError(t, CheckAmount(0))
	assert.NoError(t, CheckAmount(10))
	assert.ErrorIs(t, CheckAmount(-0.01), ErrInvalidAmount)
	assert.ErrorIs(t, CheckAmount(math.NaN()), ErrInvalidAmount)
}
