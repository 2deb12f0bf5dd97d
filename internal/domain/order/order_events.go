package order

import (
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const aggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated    = "order.created"
	EventTypePaymentRecorded = "order.payment_recorded"
	EventTypeOrderPaid       = "order.paid"
	EventTypeOrderSettled    = "order.settled"
	EventTypeOrderCancelled  = "order.cancelled"
)

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string `json:"order_number"`
	CustomerName string `json:"customer_name"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, aggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
	}
}

// PaymentRecordedEvent is raised for every ledger append
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	OrderNumber     string          `json:"order_number"`
	BaseAmount      decimal.Decimal `json:"base_amount"`
	EnteredCurrency EnteredCurrency `json:"entered_currency"`
	Method          PaymentMethod   `json:"method"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(o *Order, tx *PaymentTransaction) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, aggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		BaseAmount:      tx.BaseAmount,
		EnteredCurrency: tx.EnteredCurrency,
		Method:          tx.Method,
		AmountPaid:      o.AmountPaid,
		PaymentStatus:   o.PaymentStatus,
	}
}

// OrderPaidEvent is raised when the ledger reaches the order total
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, aggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		TotalAmount:     o.TotalAmount,
		AmountPaid:      o.AmountPaid,
	}
}

// OrderSettledEvent is raised when a settle-remaining payment writes off a difference
type OrderSettledEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string          `json:"order_number"`
	WriteOffAmount decimal.Decimal `json:"write_off_amount"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
}

// NewOrderSettledEvent creates a new OrderSettledEvent
func NewOrderSettledEvent(o *Order, tx *PaymentTransaction) *OrderSettledEvent {
	return &OrderSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSettled, aggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		WriteOffAmount:  tx.WriteOffAmount,
		BaseAmount:      tx.BaseAmount,
	}
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, aggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		Reason:          reason,
	}
}
