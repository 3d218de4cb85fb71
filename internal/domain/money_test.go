package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("rounds to the currency scale half-to-even", func(t *testing.T) {
		m, err := NewMoney(decimal.RequireFromString("10.005"), USD)
		require.NoError(t, err)
		assert.Equal(t, "10", m.Amount().String())

		m, err = NewMoney(decimal.RequireFromString("10.015"), USD)
		require.NoError(t, err)
		assert.Equal(t, "10.02", m.Amount().String())
	})

	t.Run("rounding is idempotent", func(t *testing.T) {
		first, err := NewMoney(decimal.RequireFromString("3.14159"), EUR)
		require.NoError(t, err)
		second, err := NewMoney(first.Amount(), EUR)
		require.NoError(t, err)
		assert.True(t, first.Equal(second))
	})

	t.Run("zero-decimal currencies round to whole units", func(t *testing.T) {
		m, err := NewMoney(decimal.RequireFromString("1000.4"), JPY)
		require.NoError(t, err)
		assert.Equal(t, "1000", m.Amount().String())
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := NewMoney(decimal.RequireFromString("-0.01"), USD)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("rejects unset or unknown currencies", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "")
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewMoney(decimal.NewFromInt(1), "XTS")
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("add then subtract is identity", func(t *testing.T) {
		a := MustMoney("19.90", BRL)
		b := MustMoney("5.25", BRL)

		sum, err := a.Add(b)
		require.NoError(t, err)
		back, err := sum.Sub(b)
		require.NoError(t, err)
		assert.True(t, a.Equal(back))
	})

	t.Run("add rejects mismatched currencies", func(t *testing.T) {
		_, err := MustMoney("1.00", USD).Add(MustMoney("1.00", EUR))
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("subtract rejects mismatched currencies", func(t *testing.T) {
		_, err := MustMoney("1.00", USD).Sub(MustMoney("1.00", BRL))
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("subtract rejects negative results", func(t *testing.T) {
		_, err := MustMoney("1.00", USD).Sub(MustMoney("2.00", USD))
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("multiplies by integer quantities", func(t *testing.T) {
		total, err := MustMoney("5.50", USD).MulInt(3)
		require.NoError(t, err)
		assert.True(t, total.Equal(MustMoney("16.50", USD)))
	})

	t.Run("rejects negative factors", func(t *testing.T) {
		_, err := MustMoney("5.50", USD).MulInt(-1)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestMoneyEqual(t *testing.T) {
	assert.True(t, MustMoney("10.00", USD).Equal(MustMoney("10", USD)))
	assert.False(t, MustMoney("10.00", USD).Equal(MustMoney("10.00", EUR)))
	assert.False(t, MustMoney("10.00", USD).Equal(MustMoney("10.01", USD)))
}

func TestMoneyJSON(t *testing.T) {
	m := MustMoney("42.50", EUR)
	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"42.5","currency":"EUR"}`, string(data))

	var parsed Money
	require.NoError(t, parsed.UnmarshalJSON(data))
	assert.True(t, m.Equal(parsed))
}
