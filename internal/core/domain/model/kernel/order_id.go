package kernel

import (
	"fmt"
	"strings"

	"rxdelivery/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	// OrderIDMaxLength bounds identifiers accepted from upstream order management.
	OrderIDMaxLength = 64

	generatedOrderIDPrefix = "ORD-"
)

// ErrOrderIDIsNotConstructed is returned when validating a zero-value OrderID.
var ErrOrderIDIsNotConstructed = errs.NewValueIsRequiredError(
	"order ID must be created via NewOrderID or OrderIDFromString")

// OrderID identifies a delivery order. Identifiers come from the order-management
// side (e.g. "ORD-001"); NewOrderID mints one when none was supplied.
//
// The zero value is invalid.
type OrderID struct {
	value string
}

// NewOrderID generates a random identifier of the form "ORD-<uuid>".
func NewOrderID() OrderID {
	return OrderID{value: generatedOrderIDPrefix + strings.ToUpper(uuid.NewString())}
}

// OrderIDFromString validates and wraps an externally assigned identifier.
// Surrounding whitespace is trimmed; inner whitespace is rejected.
func OrderIDFromString(s string) (OrderID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return OrderID{}, errs.NewValueIsRequiredError("order ID")
	}
	if len(s) > OrderIDMaxLength {
		return OrderID{}, errs.NewValueIsOutOfRangeError("order ID length", len(s), 1, OrderIDMaxLength)
	}
	if strings.ContainsAny(s, " \t\r\n/") {
		return OrderID{}, errs.NewValueIsInvalidErrorWithCause(
			"order ID", fmt.Errorf("%q contains whitespace or '/'", s))
	}
	return OrderID{value: s}, nil
}

// MustOrderID is OrderIDFromString for literals known to be valid. It panics otherwise.
func MustOrderID(s string) OrderID {
	id, err := OrderIDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id OrderID) String() string {
	return id.value
}

func (id OrderID) IsEqual(other OrderID) bool {
	return id.value == other.value
}

// Validate rejects the zero value.
func (id OrderID) Validate() error {
	if id.value == "" {
		return ErrOrderIDIsNotConstructed
	}
	return nil
}
