package kernel

import (
	"errors"
	"strings"
	"unicode/utf8"

	"rxdelivery/internal/pkg/errs"
	"rxdelivery/internal/pkg/guard"
)

const contactFieldMaxLength = 256

var ErrContactIsNotConstructed = errs.NewValueIsRequiredError("contact must be created via NewContact")

// Contact is the customer display data shown on a delivery card.
type Contact struct { //nolint:recvcheck //using for validation
	name    string
	address string
	phone   string
	guard   guard.ConstructorGuard
}

// NewContact trims every field and requires all three.
func NewContact(name, address, phone string) (Contact, error) {
	c := Contact{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		setContactField(&c.name, "customer name", name),
		setContactField(&c.address, "customer address", address),
		setContactField(&c.phone, "customer phone", phone),
	); err != nil {
		return Contact{}, err
	}

	return c, nil
}

func (c Contact) Validate() error {
	return c.guard.Validate(ErrContactIsNotConstructed)
}

func (c Contact) Name() string {
	return c.name
}

func (c Contact) Address() string {
	return c.address
}

func (c Contact) Phone() string {
	return c.phone
}

func setContactField(dst *string, param, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errs.NewValueIsRequiredError(param)
	}
	if n := utf8.RuneCountInString(value); n > contactFieldMaxLength {
		return errs.NewValueIsOutOfRangeError(param+" length", n, 1, contactFieldMaxLength)
	}
	*dst = value
	return nil
}
