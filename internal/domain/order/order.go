package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/exchange"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Order is the aggregate root for one customer job: its billable lines, the
// frozen total, the append-only payment ledger and both status dimensions.
//
// TotalAmount is fixed at the moment the lines are finalized; it is never
// re-derived from the ledger. AmountPaid is always the exact sum of the
// ledger entries' base-currency amounts.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string
	CustomerName    string
	CustomerPhone   string
	Items           []LineItem
	TotalAmount     decimal.Decimal
	AmountPaid      decimal.Decimal
	WriteOffTotal   decimal.Decimal
	PaymentStatus   PaymentStatus
	LifecycleStatus LifecycleStatus
	Payments        PaymentTransactions
	Notes           string
	StartedAt       *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

// NewOrder creates a new order in PENDING/UNPAID state
func NewOrder(orderNumber, customerName, customerPhone string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerName:      customerName,
		CustomerPhone:     customerPhone,
		Items:             make([]LineItem, 0),
		TotalAmount:       decimal.Zero,
		AmountPaid:        decimal.Zero,
		WriteOffTotal:     decimal.Zero,
		PaymentStatus:     PaymentStatusUnpaid,
		LifecycleStatus:   LifecycleStatusPending,
		Payments:          PaymentTransactions{},
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// CanModifyItems returns true while lines may still be edited: before any
// payment has been taken and before the job enters production. Editing after
// that point would detach the frozen total from the ledger's invariants.
func (o *Order) CanModifyItems() bool {
	return o.LifecycleStatus == LifecycleStatusPending && len(o.Payments) == 0
}

// AddItem appends a line and re-derives the order total
func (o *Order) AddItem(item *LineItem, policy PricingPolicy) error {
	if !o.CanModifyItems() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify items once payments exist or production has started")
	}
	if item == nil {
		return shared.ErrInvalidInput
	}

	item.OrderID = o.ID
	item.Recompute(policy)
	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.touch()

	return nil
}

// RemoveItem removes a line and re-derives the order total
func (o *Order) RemoveItem(itemID uuid.UUID, policy PricingPolicy) error {
	if !o.CanModifyItems() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify items once payments exist or production has started")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotal()
			o.touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// ReplaceItems swaps the full line list, recomputing every subtotal and the
// total. This is the explicit edit flow: the frozen total is re-derived here
// and nowhere else.
func (o *Order) ReplaceItems(items []*LineItem, policy PricingPolicy) error {
	if !o.CanModifyItems() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify items once payments exist or production has started")
	}

	o.Items = make([]LineItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			return shared.ErrInvalidInput
		}
		item.OrderID = o.ID
		item.Recompute(policy)
		o.Items = append(o.Items, *item)
	}
	o.recalculateTotal()
	o.touch()

	return nil
}

// recalculateTotal sums the computed subtotals into the order total.
// Full decimal precision, no rounding: rounding happens only at presentation.
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.ComputedSubtotal)
	}
	o.TotalAmount = total
}

// PaymentEntry carries one operator-confirmed payment into the ledger.
// Local-currency entries must include the rate snapshot captured when the
// operator confirmed the amount; the ledger never fetches rates itself.
type PaymentEntry struct {
	Amount   decimal.Decimal
	Currency EnteredCurrency
	RateKind exchange.RateKind
	Snapshot *exchange.RateSnapshot
	Method   PaymentMethod
	Note     string
	WriteOff *decimal.Decimal
}

// RecordPayment validates and appends a payment transaction to the ledger,
// then re-derives the payment status. All validation happens before any
// mutation: a rejected entry leaves the order untouched.
//
// Without a write-off, an entry that would push the paid amount past
// total + tolerance fails with OVERPAYMENT_REJECTED. With a write-off equal
// to the remaining difference the entry is accepted and the order is forced
// to PAID (the settle-remaining path).
func (o *Order) RecordPayment(entry PaymentEntry, policy PricingPolicy) (*PaymentTransaction, error) {
	if !o.PaymentStatus.CanApplyPayment() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record payment on a %s order", o.PaymentStatus))
	}
	if !entry.Currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Entered currency must be BASE or LOCAL")
	}
	if !entry.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}

	baseAmount := entry.Amount
	var conversionRate decimal.Decimal
	note := entry.Note

	if entry.Currency == CurrencyLocal {
		if !entry.RateKind.IsValid() {
			return nil, shared.ErrRateUnavailable
		}
		rate, err := entry.Snapshot.Rate(entry.RateKind)
		if err != nil {
			return nil, err
		}
		conversionRate = rate
		baseAmount = entry.Amount.Div(rate)
		note = auditNote(note, entry.Amount, rate, entry.RateKind)
	}

	if !baseAmount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}

	amountPaidAfter := o.AmountPaid.Add(baseAmount)
	writeOff := decimal.Zero

	if entry.WriteOff == nil {
		if amountPaidAfter.GreaterThan(o.TotalAmount.Add(policy.SettlementTolerance)) {
			return nil, shared.ErrOverpaymentRejected
		}
	} else {
		writeOff = *entry.WriteOff
		if writeOff.IsNegative() {
			return nil, shared.NewDomainError("INVALID_WRITE_OFF", "Write-off amount cannot be negative")
		}
		difference := o.TotalAmount.Sub(amountPaidAfter).Abs()
		if !writeOff.Equal(difference) {
			return nil, shared.NewDomainError("INVALID_WRITE_OFF",
				fmt.Sprintf("Write-off %s must equal the remaining difference %s", writeOff, difference))
		}
		if policy.HasWriteOffCeiling() && writeOff.GreaterThan(policy.WriteOffCeiling) {
			return nil, shared.NewDomainError("WRITE_OFF_EXCEEDS_CEILING",
				fmt.Sprintf("Write-off %s exceeds the configured ceiling %s", writeOff, policy.WriteOffCeiling))
		}
	}

	tx := PaymentTransaction{
		ID:              uuid.New(),
		BaseAmount:      baseAmount,
		EnteredCurrency: entry.Currency,
		EnteredAmount:   entry.Amount,
		Method:          entry.Method,
		Note:            note,
		WriteOffAmount:  writeOff,
		RecordedAt:      time.Now(),
	}
	if entry.Currency == CurrencyLocal {
		tx.RateKind = entry.RateKind
		tx.ConversionRate = conversionRate
	}

	o.Payments = append(o.Payments, tx)
	o.AmountPaid = amountPaidAfter
	o.WriteOffTotal = o.WriteOffTotal.Add(writeOff)

	if entry.WriteOff != nil {
		// Settle-remaining forces full closure regardless of thresholds
		o.PaymentStatus = PaymentStatusPaid
	} else {
		o.PaymentStatus = DerivePaymentStatus(o.AmountPaid, o.TotalAmount, policy.SettlementTolerance)
	}

	o.AddDomainEvent(NewPaymentRecordedEvent(o, &tx))
	if o.PaymentStatus == PaymentStatusPaid {
		o.AddDomainEvent(NewOrderPaidEvent(o))
	}
	if writeOff.IsPositive() {
		o.AddDomainEvent(NewOrderSettledEvent(o, &tx))
	}

	o.touch()

	return &tx, nil
}

// PendingBalance returns max(0, total - paid) in base currency
func (o *Order) PendingBalance() decimal.Decimal {
	pending := o.TotalAmount.Sub(o.AmountPaid)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// IsFullySettled returns true when the pending balance is within the tolerance
func (o *Order) IsFullySettled(policy PricingPolicy) bool {
	return o.PendingBalance().LessThanOrEqual(policy.SettlementTolerance)
}

// Start moves the job into production. Every line must carry its mode's
// required parameters; incomplete drafts stay in PENDING.
func (o *Order) Start() error {
	if !o.LifecycleStatus.CanTransitionTo(LifecycleStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start order in %s status", o.LifecycleStatus))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot start an order without items")
	}
	for _, item := range o.Items {
		if !item.IsComplete() {
			switch item.Mode {
			case BillingPerArea:
				return shared.ErrMissingGeometry
			case BillingPerTime:
				return shared.ErrMissingDuration
			}
		}
	}

	now := time.Now()
	o.LifecycleStatus = LifecycleStatusInProgress
	o.StartedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Complete marks the job as finished in the workshop
func (o *Order) Complete() error {
	if !o.LifecycleStatus.CanTransitionTo(LifecycleStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete order in %s status", o.LifecycleStatus))
	}

	now := time.Now()
	o.LifecycleStatus = LifecycleStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Cancel cancels the order and voids its payment status
func (o *Order) Cancel(reason string) error {
	if !o.LifecycleStatus.CanTransitionTo(LifecycleStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.LifecycleStatus))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.LifecycleStatus = LifecycleStatusCancelled
	o.PaymentStatus = PaymentStatusVoid
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))

	return nil
}

// SetNotes sets the order notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.touch()
}

// GetTotalAmountMoney returns the total as Money
func (o *Order) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalAmount)
}

// GetAmountPaidMoney returns the paid amount as Money
func (o *Order) GetAmountPaidMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.AmountPaid)
}

// GetPendingBalanceMoney returns the pending balance as Money
func (o *Order) GetPendingBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.PendingBalance())
}

// ItemCount returns the number of lines on the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// PaymentCount returns the number of ledger entries
func (o *Order) PaymentCount() int {
	return len(o.Payments)
}

// GetItem returns a line by its ID
func (o *Order) GetItem(itemID uuid.UUID) *LineItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}
