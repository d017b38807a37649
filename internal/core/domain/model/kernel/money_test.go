package kernel_test

import (
	"testing"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromString(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{"two decimals", "34.97", "34.97"},
		{"integer", "20", "20.00"},
		{"rounds half up to cents", "22.985", "22.99"},
		{"zero", "0", "0.00"},
		{"largest storable amount", "9999999999.99", "9999999999.99"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := kernel.MoneyFromString(tc.raw)

			require.NoError(t, err)
			require.NoError(t, m.Validate())
			assert.Equal(t, tc.expected, m.String())
		})
	}
}

func TestMoney_Invalid(t *testing.T) {
	t.Run("negative amount", func(t *testing.T) {
		_, err := kernel.NewMoney(decimal.NewFromFloat(-0.01))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "is negative")
	})

	t.Run("amount above the storable maximum", func(t *testing.T) {
		for _, raw := range []string{"10000000000", "99999999999999", "9999999999.995"} {
			_, err := kernel.MoneyFromString(raw)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange, raw)
		}
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := kernel.MoneyFromString("twelve")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value", func(t *testing.T) {
		var m kernel.Money
		assert.Equal(t, kernel.ErrMoneyIsNotConstructed, m.Validate())
	})
}

func TestMoney_IsEqual(t *testing.T) {
	a, err := kernel.MoneyFromString("28.970")
	require.NoError(t, err)
	b, err := kernel.NewMoney(decimal.RequireFromString("28.97"))
	require.NoError(t, err)

	assert.True(t, a.IsEqual(b))
	assert.True(t, a.Decimal().Equal(decimal.RequireFromString("28.97")))
}
