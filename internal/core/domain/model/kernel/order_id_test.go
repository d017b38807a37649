package kernel_test

import (
	"strings"
	"testing"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderIDFromString(t *testing.T) {
	t.Run("should accept upstream identifiers", func(t *testing.T) {
		id, err := kernel.OrderIDFromString("  ORD-001 ")

		require.NoError(t, err)
		require.NoError(t, id.Validate())
		assert.Equal(t, "ORD-001", id.String())
	})

	t.Run("should reject empty identifiers", func(t *testing.T) {
		_, err := kernel.OrderIDFromString("   ")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject identifiers with inner whitespace or slashes", func(t *testing.T) {
		for _, raw := range []string{"ORD 001", "ORD/001", "ORD-\t1"} {
			_, err := kernel.OrderIDFromString(raw)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, raw)
		}
	})

	t.Run("should reject identifiers that are too long", func(t *testing.T) {
		_, err := kernel.OrderIDFromString(strings.Repeat("X", kernel.OrderIDMaxLength+1))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestNewOrderID(t *testing.T) {
	a := kernel.NewOrderID()
	b := kernel.NewOrderID()

	require.NoError(t, a.Validate())
	assert.True(t, strings.HasPrefix(a.String(), "ORD-"))
	assert.False(t, a.IsEqual(b))

	parsed, err := kernel.OrderIDFromString(a.String())
	require.NoError(t, err)
	assert.True(t, parsed.IsEqual(a))
}

func TestOrderID_ZeroValue(t *testing.T) {
	var id kernel.OrderID

	assert.Equal(t, kernel.ErrOrderIDIsNotConstructed, id.Validate())
}

func TestMustOrderID(t *testing.T) {
	assert.Equal(t, "ORD-003", kernel.MustOrderID("ORD-003").String())
	assert.Panics(t, func() { kernel.MustOrderID("") })
}
