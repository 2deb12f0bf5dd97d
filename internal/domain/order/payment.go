package order

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/exchange"
	"github.com/shopspring/decimal"
)

// PaymentMethod tags how a payment was collected. Informational only; it
// never participates in any calculation.
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "CASH"
	PaymentMethodBankTransfer  PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard          PaymentMethod = "CARD"
	PaymentMethodMobilePayment PaymentMethod = "MOBILE_PAYMENT"
	PaymentMethodOther         PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard,
		PaymentMethodMobilePayment, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Label returns the human-readable label used on exported documents
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodCash:
		return "Cash"
	case PaymentMethodBankTransfer:
		return "Bank transfer"
	case PaymentMethodCard:
		return "Card"
	case PaymentMethodMobilePayment:
		return "Mobile payment"
	}
	return "Other"
}

// EnteredCurrency records which currency the operator typed the amount in
type EnteredCurrency string

const (
	CurrencyBase  EnteredCurrency = "BASE"  // Base-currency (USD-equivalent) entry
	CurrencyLocal EnteredCurrency = "LOCAL" // Local-currency entry, converted at a snapshot rate
)

// IsValid checks if the entered currency is valid
func (c EnteredCurrency) IsValid() bool {
	return c == CurrencyBase || c == CurrencyLocal
}

// PaymentTransaction is one immutable entry in an order's payment ledger.
// Once appended it is never edited or removed; corrections require a new
// transaction. Local-currency entries carry the conversion rate and the
// rate kind that produced the base amount, for audit.
type PaymentTransaction struct {
	ID              uuid.UUID         `json:"id"`
	BaseAmount      decimal.Decimal   `json:"base_amount"`
	EnteredCurrency EnteredCurrency   `json:"entered_currency"`
	EnteredAmount   decimal.Decimal   `json:"entered_amount"`
	RateKind        exchange.RateKind `json:"rate_kind,omitempty"`
	ConversionRate  decimal.Decimal   `json:"conversion_rate,omitempty"`
	Method          PaymentMethod     `json:"method"`
	Note            string            `json:"note,omitempty"`
	WriteOffAmount  decimal.Decimal   `json:"write_off_amount,omitempty"`
	RecordedAt      time.Time         `json:"recorded_at"`
}

// IsLocalCurrency returns true when the operator entered the amount in local currency
func (t *PaymentTransaction) IsLocalCurrency() bool {
	return t.EnteredCurrency == CurrencyLocal
}

// HasWriteOff returns true when this transaction settled the order with a discount
func (t *PaymentTransaction) HasWriteOff() bool {
	return t.WriteOffAmount.IsPositive()
}

// auditNote appends the conversion details to the operator's note so the
// original local amount and rate survive on the ledger entry.
func auditNote(note string, entered decimal.Decimal, rate decimal.Decimal, kind exchange.RateKind) string {
	suffix := fmt.Sprintf("(VES %s @ %s %s)", entered.StringFixed(2), rate.StringFixed(2), kind.Label())
	note = strings.TrimSpace(note)
	if note == "" {
		return suffix
	}
	return note + " " + suffix
}

// PaymentTransactions is the append-only ledger, stored as a JSONB column
type PaymentTransactions []PaymentTransaction

// Value implements driver.Valuer for JSONB storage
func (p PaymentTransactions) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval
func (p *PaymentTransactions) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentTransactions{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentTransactions: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentTransactions{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Sum returns the exact sum of all entries' base-currency amounts
func (p PaymentTransactions) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range p {
		total = total.Add(tx.BaseAmount)
	}
	return total
}
