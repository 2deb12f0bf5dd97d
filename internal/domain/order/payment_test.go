package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentTransactionsJSONB(t *testing.T) {
	ledger := PaymentTransactions{
		{
			ID:              uuid.New(),
			BaseAmount:      decimal.RequireFromString("50.00"),
			EnteredCurrency: CurrencyBase,
			EnteredAmount:   decimal.RequireFromString("50.00"),
			Method:          PaymentMethodCash,
			RecordedAt:      time.Now().UTC().Truncate(time.Second),
		},
		{
			ID:              uuid.New(),
			BaseAmount:      decimal.RequireFromString("25.00"),
			EnteredCurrency: CurrencyLocal,
			EnteredAmount:   decimal.RequireFromString("1000.00"),
			RateKind:        exchange.RateParallel,
			ConversionRate:  decimal.RequireFromString("40.00"),
			Method:          PaymentMethodMobilePayment,
			Note:            "(VES 1000.00 @ 40.00 parallel)",
			RecordedAt:      time.Now().UTC().Truncate(time.Second),
		},
	}

	value, err := ledger.Value()
	require.NoError(t, err)

	var restored PaymentTransactions
	require.NoError(t, restored.Scan(value))
	require.Len(t, restored, 2)
	assert.Equal(t, ledger[0].ID, restored[0].ID)
	assert.True(t, restored[0].BaseAmount.Equal(ledger[0].BaseAmount))
	assert.Equal(t, exchange.RateParallel, restored[1].RateKind)
	assert.True(t, restored[1].ConversionRate.Equal(ledger[1].ConversionRate))
	assert.Equal(t, ledger[1].Note, restored[1].Note)
}

func TestPaymentTransactionsScanEmpty(t *testing.T) {
	var ledger PaymentTransactions
	require.NoError(t, ledger.Scan(nil))
	assert.Empty(t, ledger)

	require.NoError(t, ledger.Scan([]byte("[]")))
	assert.Empty(t, ledger)
}

func TestPaymentTransactionsSum(t *testing.T) {
	ledger := PaymentTransactions{
		{BaseAmount: decimal.RequireFromString("10.25")},
		{BaseAmount: decimal.RequireFromString("0.01")},
		{BaseAmount: decimal.RequireFromString("89.74")},
	}
	assert.True(t, ledger.Sum().Equal(decimal.RequireFromString("100.00")))
	assert.True(t, PaymentTransactions{}.Sum().IsZero())
}

func TestAuditNote(t *testing.T) {
	entered := decimal.RequireFromString("2000")
	rate := decimal.RequireFromString("40")

	t.Run("without operator note", func(t *testing.T) {
		got := auditNote("", entered, rate, exchange.RateParallel)
		assert.Equal(t, "(VES 2000.00 @ 40.00 parallel)", got)
	})

	t.Run("with operator note", func(t *testing.T) {
		got := auditNote("second installment", entered, rate, exchange.RateOfficialUSD)
		assert.Equal(t, "second installment (VES 2000.00 @ 40.00 official)", got)
	})
}

func TestPaymentMethodLabel(t *testing.T) {
	assert.Equal(t, "Cash", PaymentMethodCash.Label())
	assert.Equal(t, "Bank transfer", PaymentMethodBankTransfer.Label())
	assert.Equal(t, "Other", PaymentMethod("UNKNOWN").Label())
}
