package order

import (
	"testing"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromString(s, valueobject.USD)
	require.NoError(t, err)
	return m
}

func TestNewPerUnitLineItem(t *testing.T) {
	t.Run("valid line", func(t *testing.T) {
		li, err := NewPerUnitLineItem("Business cards", 3, mustMoney(t, "5.00"))
		require.NoError(t, err)
		assert.Equal(t, BillingPerUnit, li.Mode)
		assert.Equal(t, int64(3), li.Quantity)
		assert.True(t, li.IsComplete())
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := NewPerUnitLineItem("Business cards", 0, mustMoney(t, "5.00"))
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("negative quantity rejected", func(t *testing.T) {
		_, err := NewPerUnitLineItem("Business cards", -2, mustMoney(t, "5.00"))
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		m := valueobject.NewMoneyUSD(decimal.RequireFromString("-1.00"))
		_, err := NewPerUnitLineItem("Business cards", 1, m)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})
}

func TestLineItemSubtotal(t *testing.T) {
	policy := DefaultPricingPolicy()

	tests := []struct {
		name     string
		build    func(t *testing.T) *LineItem
		expected string
	}{
		{
			name: "per unit multiplies price by quantity",
			build: func(t *testing.T) *LineItem {
				li, err := NewPerUnitLineItem("Stickers", 3, mustMoney(t, "5.00"))
				require.NoError(t, err)
				return li
			},
			expected: "15.00",
		},
		{
			name: "per area converts cm to square meters",
			build: func(t *testing.T) *LineItem {
				dims, err := valueobject.NewDimensions(decimal.NewFromInt(200), decimal.NewFromInt(100))
				require.NoError(t, err)
				li, err := NewPerAreaLineItem("Banner", 1, mustMoney(t, "3.50"), dims)
				require.NoError(t, err)
				return li
			},
			expected: "7.00", // 2 m² at 3.50/m²
		},
		{
			name: "per area with quantity",
			build: func(t *testing.T) *LineItem {
				dims, err := valueobject.NewDimensions(decimal.NewFromInt(50), decimal.NewFromInt(50))
				require.NoError(t, err)
				li, err := NewPerAreaLineItem("Acrylic sheet", 4, mustMoney(t, "10.00"), dims)
				require.NoError(t, err)
				return li
			},
			expected: "10.00", // 0.25 m² * 10.00 * 4
		},
		{
			name: "per time uses the shop minute rate",
			build: func(t *testing.T) *LineItem {
				dur, err := valueobject.NewCutDuration(5, 30)
				require.NoError(t, err)
				li, err := NewPerTimeLineItem("Laser cut", 1, dur)
				require.NoError(t, err)
				return li
			},
			expected: "4.40", // 5.5 min * 0.80
		},
		{
			name: "per time with quantity",
			build: func(t *testing.T) *LineItem {
				dur, err := valueobject.NewCutDuration(10, 0)
				require.NoError(t, err)
				li, err := NewPerTimeLineItem("Laser cut", 3, dur)
				require.NoError(t, err)
				return li
			},
			expected: "24.00", // 10 min * 0.80 * 3
		},
		{
			name: "material surcharge applies per unit before quantity",
			build: func(t *testing.T) *LineItem {
				li, err := NewPerUnitLineItem("Engraved keychain", 3, mustMoney(t, "5.00"))
				require.NoError(t, err)
				_, err = li.WithMaterial(mustMoney(t, "1.50"))
				require.NoError(t, err)
				return li
			},
			expected: "19.50", // (5.00 + 1.50) * 3
		},
		{
			name: "incomplete geometry prices at zero",
			build: func(t *testing.T) *LineItem {
				li, err := NewPerAreaLineItem("Banner", 2, mustMoney(t, "3.50"), valueobject.Dimensions{})
				require.NoError(t, err)
				return li
			},
			expected: "0",
		},
		{
			name: "incomplete duration prices at zero",
			build: func(t *testing.T) *LineItem {
				li, err := NewPerTimeLineItem("Laser cut", 1, valueobject.CutDuration{})
				require.NoError(t, err)
				return li
			},
			expected: "0",
		},
		{
			name: "incomplete line with material still prices at zero",
			build: func(t *testing.T) *LineItem {
				li, err := NewPerAreaLineItem("Banner", 1, mustMoney(t, "3.50"), valueobject.Dimensions{})
				require.NoError(t, err)
				_, err = li.WithMaterial(mustMoney(t, "2.00"))
				require.NoError(t, err)
				return li
			},
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			li := tt.build(t)
			got := li.Subtotal(policy)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestLineItemSubtotalIsDeterministic(t *testing.T) {
	policy := DefaultPricingPolicy()
	dims, err := valueobject.NewDimensions(decimal.RequireFromString("33.3"), decimal.RequireFromString("66.6"))
	require.NoError(t, err)
	li, err := NewPerAreaLineItem("Odd size", 7, mustMoney(t, "2.99"), dims)
	require.NoError(t, err)

	first := li.Subtotal(policy)
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(li.Subtotal(policy)))
	}
}

func TestLineItemRecompute(t *testing.T) {
	policy := DefaultPricingPolicy()
	li, err := NewPerUnitLineItem("Posters", 2, mustMoney(t, "4.00"))
	require.NoError(t, err)

	li.Recompute(policy)
	assert.True(t, li.ComputedSubtotal.Equal(decimal.RequireFromString("8.00")))

	require.NoError(t, li.UpdateQuantity(5, policy))
	assert.True(t, li.ComputedSubtotal.Equal(decimal.RequireFromString("20.00")))

	require.NoError(t, li.UpdateUnitPrice(mustMoney(t, "3.00"), policy))
	assert.True(t, li.ComputedSubtotal.Equal(decimal.RequireFromString("15.00")))

	assert.Error(t, li.UpdateQuantity(0, policy))
}
