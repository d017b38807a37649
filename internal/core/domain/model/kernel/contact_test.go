package kernel_test

import (
	"strings"
	"testing"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContact(t *testing.T) {
	t.Run("should trim and keep all fields", func(t *testing.T) {
		c, err := kernel.NewContact(" John Doe ", "123 Main St, Anytown, AT 12345", "(123) 456-7890")

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.Equal(t, "John Doe", c.Name())
		assert.Equal(t, "123 Main St, Anytown, AT 12345", c.Address())
		assert.Equal(t, "(123) 456-7890", c.Phone())
	})

	t.Run("should join every missing field", func(t *testing.T) {
		_, err := kernel.NewContact("", " ", "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "customer name")
		assert.Contains(t, err.Error(), "customer address")
		assert.Contains(t, err.Error(), "customer phone")
	})

	t.Run("should reject oversized fields", func(t *testing.T) {
		_, err := kernel.NewContact("Jane", strings.Repeat("a", 300), "555")

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var c kernel.Contact
		assert.Equal(t, kernel.ErrContactIsNotConstructed, c.Validate())
	})
}
