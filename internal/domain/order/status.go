package order

import "github.com/shopspring/decimal"

// PaymentStatus is derived from the ledger after every append. VOID is set
// only by explicit cancellation, never by the ledger.
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "UNPAID"
	PaymentStatusPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentStatusPaid          PaymentStatus = "PAID"
	PaymentStatusVoid          PaymentStatus = "VOID"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartiallyPaid, PaymentStatusPaid, PaymentStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// CanApplyPayment returns true if the ledger accepts new entries in this status
func (s PaymentStatus) CanApplyPayment() bool {
	return s != PaymentStatusVoid
}

// DerivePaymentStatus maps the paid amount onto the payment status using the
// settlement tolerance:
//
//	paid <= tolerance          -> UNPAID
//	paid >= total - tolerance  -> PAID
//	otherwise                  -> PARTIALLY_PAID
func DerivePaymentStatus(amountPaid, totalAmount, tolerance decimal.Decimal) PaymentStatus {
	if amountPaid.LessThanOrEqual(tolerance) {
		return PaymentStatusUnpaid
	}
	if amountPaid.GreaterThanOrEqual(totalAmount.Sub(tolerance)) {
		return PaymentStatusPaid
	}
	return PaymentStatusPartiallyPaid
}

// LifecycleStatus tracks the order through the workshop. It is operator
// driven and deliberately independent of payment status: a fully paid order
// can still be in progress on the floor.
type LifecycleStatus string

const (
	LifecycleStatusPending    LifecycleStatus = "PENDING"
	LifecycleStatusInProgress LifecycleStatus = "IN_PROGRESS"
	LifecycleStatusCompleted  LifecycleStatus = "COMPLETED"
	LifecycleStatusCancelled  LifecycleStatus = "CANCELLED"
)

// IsValid checks if the status is a valid LifecycleStatus
func (s LifecycleStatus) IsValid() bool {
	switch s {
	case LifecycleStatusPending, LifecycleStatusInProgress, LifecycleStatusCompleted, LifecycleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of LifecycleStatus
func (s LifecycleStatus) String() string {
	return string(s)
}

// IsTerminal returns true for completed or cancelled orders
func (s LifecycleStatus) IsTerminal() bool {
	return s == LifecycleStatusCompleted || s == LifecycleStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s LifecycleStatus) CanTransitionTo(target LifecycleStatus) bool {
	switch s {
	case LifecycleStatusPending:
		return target == LifecycleStatusInProgress || target == LifecycleStatusCancelled
	case LifecycleStatusInProgress:
		return target == LifecycleStatusCompleted || target == LifecycleStatusCancelled
	case LifecycleStatusCompleted, LifecycleStatusCancelled:
		return false // Terminal states
	}
	return false
}
