package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

const (
	BRL Currency = "BRL"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
)

// currencyScale maps each supported currency to its canonical number of
// fractional digits.
var currencyScale = map[Currency]int32{
	BRL: 2,
	USD: 2,
	EUR: 2,
	GBP: 2,
	JPY: 0,
}

// Scale returns the currency's canonical fractional digits and whether the
// currency is supported.
func (c Currency) Scale() (int32, bool) {
	s, ok := currencyScale[c]
	return s, ok
}

// Money is a currency-safe monetary value. Amounts are always non-negative
// and scaled to the currency's canonical fractional digits using
// round-half-to-even. The zero value is not a valid Money; use NewMoney.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney builds a Money from an amount and currency, rounding the amount to
// the currency's canonical scale.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	scale, ok := currency.Scale()
	if !ok {
		return Money{}, fmt.Errorf("unsupported currency %q: %w", currency, ErrInvalidValue)
	}
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("amount must be non-negative: %w", ErrInvalidValue)
	}
	return Money{amount: amount.RoundBank(scale), currency: currency}, nil
}

// MustMoney is NewMoney that panics on error. Intended for constants in tests
// and seed data.
func MustMoney(amount string, currency Currency) Money {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		panic(err)
	}
	m, err := NewMoney(d, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Currency() Currency { return m.currency }

// IsZero reports whether m is the zero value (never produced by NewMoney).
func (m Money) IsZero() bool { return m.currency == "" }

// Add returns the sum of m and other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.checkCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.currency)
}

// Sub returns the difference of m and other. The result must not be negative.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.checkCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, fmt.Errorf("resulting amount cannot be negative: %w", ErrInvalidValue)
	}
	return NewMoney(result, m.currency)
}

// MulInt returns m multiplied by a non-negative integer factor.
func (m Money) MulInt(factor int) (Money, error) {
	if factor < 0 {
		return Money{}, fmt.Errorf("factor must be non-negative: %w", ErrInvalidValue)
	}
	return NewMoney(m.amount.Mul(decimal.NewFromInt(int64(factor))), m.currency)
}

// Equal compares by scaled amount and currency.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return string(m.currency) + " " + m.amount.String()
}

func (m Money) checkCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%s vs %s: %w", m.currency, other.currency, ErrCurrencyMismatch)
	}
	return nil
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.String(), Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", raw.Amount, ErrInvalidValue)
	}
	parsed, err := NewMoney(d, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
