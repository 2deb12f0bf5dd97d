package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid amount and currency", func(t *testing.T) {
		m, err := NewMoneyFromString("12.50", USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.RequireFromString("12.50")))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})

	t.Run("rejects malformed amount string", func(t *testing.T) {
		_, err := NewMoneyFromString("12,50", VES)
		assert.Error(t, err)
	})

	t.Run("negative amounts are representable", func(t *testing.T) {
		m, err := NewMoneyFromString("-3.00", USD)
		require.NoError(t, err)
		assert.True(t, m.IsNegative())
	})
}

func TestMoney_Add(t *testing.T) {
	t.Run("same currency", func(t *testing.T) {
		a := NewMoneyUSD(decimal.RequireFromString("10.10"))
		b := NewMoneyUSD(decimal.RequireFromString("0.20"))

		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "10.30", sum.StringFixed(2))
	})

	t.Run("mixed currencies refused", func(t *testing.T) {
		usd := NewMoneyUSD(decimal.NewFromInt(10))
		ves, err := NewMoneyFromString("400", VES)
		require.NoError(t, err)

		_, err = usd.Add(ves)
		assert.ErrorContains(t, err, "cannot add VES to USD")
	})
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroUSD().IsZero())
	assert.False(t, ZeroUSD().IsPositive())
	assert.True(t, NewMoneyUSD(decimal.NewFromInt(1)).IsPositive())
	assert.True(t, NewMoneyUSD(decimal.NewFromInt(-1)).IsNegative())
}

func TestMoney_Equals(t *testing.T) {
	a := NewMoneyUSD(decimal.RequireFromString("5.00"))
	b := NewMoneyUSD(decimal.RequireFromString("5.000"))
	assert.True(t, a.Equals(b), "decimal equality ignores trailing zeros")

	ves, err := NewMoneyFromString("5.00", VES)
	require.NoError(t, err)
	assert.False(t, a.Equals(ves))
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyUSD(decimal.RequireFromString("7.5"))
	assert.Equal(t, "7.50 USD", m.String())
	assert.Equal(t, "7.500", m.StringFixed(3))
}
