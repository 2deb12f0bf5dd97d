package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

const (
	USD Currency = "USD" // base currency for totals and the payment ledger
	VES Currency = "VES" // local currency, converted at a captured rate
	EUR Currency = "EUR" // accepted when the rate source publishes an EUR rate
)

// BaseCurrency is the unit of account for order totals and ledger amounts.
const BaseCurrency = USD

// Money pairs an exact decimal amount with a currency. It is immutable;
// operations return new values. Arithmetic across currencies is refused,
// conversion happens in the exchange package before amounts meet.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyUSD creates Money in the base currency.
func NewMoneyUSD(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: USD}
}

// ZeroUSD returns zero in the base currency.
func ZeroUSD() Money {
	return Money{amount: decimal.Zero, currency: USD}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }
func (m Money) IsPositive() bool        { return m.amount.IsPositive() }
func (m Money) IsNegative() bool        { return m.amount.IsNegative() }

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add %s to %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Equals reports whether amount and currency both match.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders the amount at two decimal places with its currency code.
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + string(m.currency)
}

// StringFixed renders only the amount, at the given number of places.
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}
