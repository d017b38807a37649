package order

import (
	"errors"
	"strings"
	"unicode/utf8"

	"rxdelivery/internal/pkg/errs"
	"rxdelivery/internal/pkg/guard"
)

const (
	// ItemMaxQuantity caps a single line of a delivery.
	ItemMaxQuantity = 1000

	ItemIDMaxLength   = 64
	ItemNameMaxLength = 256
)

var ErrItemIsNotConstructed = errs.NewValueIsRequiredError("item must be created via NewItem")

// Item is one line of a delivery: a product reference, its display name and a quantity.
type Item struct { //nolint:recvcheck //using for validation
	productID string
	name      string
	quantity  int
	guard     guard.ConstructorGuard
}

func NewItem(productID, name string, quantity int) (Item, error) {
	item := Item{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setProductID(productID),
		item.setName(name),
		item.setQuantity(quantity),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) ProductID() string {
	return i.productID
}

func (i Item) Name() string {
	return i.name
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i *Item) setProductID(productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return errs.NewValueIsRequiredError("item id")
	}
	if n := utf8.RuneCountInString(productID); n > ItemIDMaxLength {
		return errs.NewValueIsOutOfRangeError("item id length", n, 1, ItemIDMaxLength)
	}
	i.productID = productID
	return nil
}

func (i *Item) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	if n := utf8.RuneCountInString(name); n > ItemNameMaxLength {
		return errs.NewValueIsOutOfRangeError("item name length", n, 1, ItemNameMaxLength)
	}
	i.name = name
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 || quantity > ItemMaxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, ItemMaxQuantity)
	}
	i.quantity = quantity
	return nil
}
