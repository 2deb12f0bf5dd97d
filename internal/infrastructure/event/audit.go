package event

import (
	"context"

	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// FinancialAuditHandler writes a structured audit line for every financial
// event. The log stream is the shop's money trail; operators grep it when a
// customer disputes a balance.
type FinancialAuditHandler struct {
	logger *zap.Logger
}

// NewFinancialAuditHandler creates a new FinancialAuditHandler
func NewFinancialAuditHandler(logger *zap.Logger) *FinancialAuditHandler {
	return &FinancialAuditHandler{logger: logger.Named("audit")}
}

// EventTypes returns the financial event types this handler subscribes to
func (h *FinancialAuditHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderCreated,
		order.EventTypePaymentRecorded,
		order.EventTypeOrderPaid,
		order.EventTypeOrderSettled,
		order.EventTypeOrderCancelled,
	}
}

// Handle writes one audit entry per event
func (h *FinancialAuditHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	switch e := ev.(type) {
	case *order.OrderCreatedEvent:
		h.logger.Info("order created",
			zap.String("order_number", e.OrderNumber),
			zap.String("customer", e.CustomerName),
		)
	case *order.PaymentRecordedEvent:
		h.logger.Info("payment recorded",
			zap.String("order_number", e.OrderNumber),
			zap.String("base_amount", e.BaseAmount.String()),
			zap.String("entered_currency", string(e.EnteredCurrency)),
			zap.String("method", string(e.Method)),
			zap.String("amount_paid", e.AmountPaid.String()),
			zap.String("payment_status", string(e.PaymentStatus)),
		)
	case *order.OrderPaidEvent:
		h.logger.Info("order fully paid",
			zap.String("order_number", e.OrderNumber),
			zap.String("total_amount", e.TotalAmount.String()),
		)
	case *order.OrderSettledEvent:
		h.logger.Info("order settled with write-off",
			zap.String("order_number", e.OrderNumber),
			zap.String("write_off", e.WriteOffAmount.String()),
			zap.String("base_amount", e.BaseAmount.String()),
		)
	case *order.OrderCancelledEvent:
		h.logger.Info("order cancelled",
			zap.String("order_number", e.OrderNumber),
			zap.String("reason", e.Reason),
		)
	}
	return nil
}

var _ shared.EventHandler = (*FinancialAuditHandler)(nil)
