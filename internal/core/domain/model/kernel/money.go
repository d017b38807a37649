package kernel

import (
	"fmt"

	"rxdelivery/internal/pkg/errs"
	"rxdelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for order totals.
const MoneyScale = 2

// MoneyMax is the largest storable amount: ten integer digits and two decimals.
var MoneyMax = decimal.RequireFromString("9999999999.99")

var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"money must be created via NewMoney or MoneyFromString")

// Money is a non-negative amount rounded to cents.
type Money struct { //nolint:recvcheck //using for validation
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewMoney rejects negative amounts, rounds to MoneyScale and caps the result at MoneyMax.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount", fmt.Errorf("%s is negative", amount.String()))
	}
	rounded := amount.Round(MoneyScale)
	if rounded.GreaterThan(MoneyMax) {
		return Money{}, errs.NewValueIsOutOfRangeError(
			"amount", rounded.StringFixed(MoneyScale), "0.00", MoneyMax.StringFixed(MoneyScale))
	}
	return Money{
		amount: rounded,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// MoneyFromString parses a decimal literal such as "34.97".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(amount)
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with exactly two decimals, e.g. "34.97".
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}
