package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Money is a value object pairing an amount in the smallest currency unit
// (cents) with a 3-letter ISO 4217 currency code. Amounts are integers so
// settlement arithmetic never hits floating-point rounding.
//
// Money follows these invariants:
//   - Amount must not be negative
//   - Currency must be exactly three uppercase ASCII letters
//   - Can only be created through NewMoney
//
// The zero value is invalid; use NewMoney.
type Money struct {
	amountCents int64
	currency    string

	isConstructed bool
}

// NewMoney creates a Money value after validating the amount and currency.
func NewMoney(amountCents int64, currency string) (Money, error) {
	if amountCents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amountCents",
			fmt.Errorf("%d is negative", amountCents))
	}
	if !isValidCurrency(currency) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a 3-letter uppercase ISO 4217 code", currency))
	}

	return Money{
		amountCents:   amountCents,
		currency:      currency,
		isConstructed: true,
	}, nil
}

// AmountCents returns the amount in the smallest currency unit.
func (m Money) AmountCents() int64 {
	return m.amountCents
}

// Currency returns the 3-letter currency code.
func (m Money) Currency() string {
	return m.currency
}

// Add returns the sum of two Money values.
// Fails when the currencies differ; mixing currencies is always a bug here.
func (m Money) Add(other Money) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if err := other.Validate(); err != nil {
		return Money{}, err
	}
	if m.currency != other.currency {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("cannot add %s to %s", other.currency, m.currency))
	}

	return NewMoney(m.amountCents+other.amountCents, m.currency)
}

// IsEqual compares two Money values by amount and currency.
func (m Money) IsEqual(other Money) bool {
	return m.amountCents == other.amountCents && m.currency == other.currency
}

// String formats the value as "<cents> <currency>", e.g. "1750 USD".
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.amountCents, m.currency)
}

// Validate checks that the Money value was created through NewMoney.
func (m Money) Validate() error {
	if !m.isConstructed {
		return errs.NewValueIsRequiredError("money must be created via NewMoney")
	}
	return nil
}

func isValidCurrency(currency string) bool {
	if len(currency) != 3 {
		return false
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
