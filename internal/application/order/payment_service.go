package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/exchange"
	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService records payments against order ledgers. All appends go
// through the repository's locked append so concurrent requests for the same
// order serialize instead of double-spending the remaining balance.
type PaymentService struct {
	repo      order.Repository
	rates     exchange.RateProvider
	policy    order.PricingPolicy
	publisher shared.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(repo order.Repository, rates exchange.RateProvider, policy order.PricingPolicy, publisher shared.EventPublisher) *PaymentService {
	return &PaymentService{
		repo:      repo,
		rates:     rates,
		policy:    policy,
		publisher: publisher,
	}
}

// RecordPayment validates and appends one payment to an order's ledger
func (s *PaymentService) RecordPayment(ctx context.Context, orderID uuid.UUID, req RecordPaymentRequest) (*OrderResponse, error) {
	entry, err := s.buildEntry(ctx, req.Currency, req.Amount, req.RateKind, req.Method, req.Note)
	if err != nil {
		return nil, err
	}
	entry.WriteOff = req.WriteOff

	o, tx, err := s.repo.AppendPayment(ctx, orderID, func(o *order.Order) (*order.PaymentTransaction, error) {
		return o.RecordPayment(entry, s.policy)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)

	logger.L(ctx).Info("payment recorded",
		zap.String("order_number", o.OrderNumber),
		zap.String("base_amount", tx.BaseAmount.String()),
		zap.String("payment_status", o.PaymentStatus.String()),
	)
	return toOrderResponse(o), nil
}

// SettleRemaining records one final payment and writes off whatever
// difference remains, closing the order as paid. The write-off amount is
// derived from the locked ledger state, not from client input.
func (s *PaymentService) SettleRemaining(ctx context.Context, orderID uuid.UUID, req SettleRemainingRequest) (*OrderResponse, error) {
	entry, err := s.buildEntry(ctx, req.Currency, req.Amount, req.RateKind, req.Method, req.Note)
	if err != nil {
		return nil, err
	}

	o, tx, err := s.repo.AppendPayment(ctx, orderID, func(o *order.Order) (*order.PaymentTransaction, error) {
		base := entry.Amount
		if entry.Currency == order.CurrencyLocal {
			converted, convErr := entry.Snapshot.ToBase(entry.Amount, entry.RateKind)
			if convErr != nil {
				return nil, convErr
			}
			base = converted
		}
		writeOff := o.TotalAmount.Sub(o.AmountPaid.Add(base)).Abs()
		settleEntry := entry
		settleEntry.WriteOff = &writeOff
		return o.RecordPayment(settleEntry, s.policy)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)

	logger.L(ctx).Info("order settled",
		zap.String("order_number", o.OrderNumber),
		zap.String("base_amount", tx.BaseAmount.String()),
		zap.String("write_off", tx.WriteOffAmount.String()),
	)
	return toOrderResponse(o), nil
}

// buildEntry assembles a domain payment entry, capturing a rate snapshot for
// local-currency amounts at the moment of entry.
func (s *PaymentService) buildEntry(ctx context.Context, currency string, amount decimal.Decimal, rateKind, method, note string) (order.PaymentEntry, error) {
	entry := order.PaymentEntry{
		Amount:   amount,
		Currency: order.EnteredCurrency(currency),
		Method:   order.PaymentMethod(method),
		Note:     note,
	}

	if entry.Currency == order.CurrencyLocal {
		kind := exchange.RateKind(rateKind)
		if !kind.IsValid() {
			return order.PaymentEntry{}, shared.NewDomainError("INVALID_RATE_KIND",
				"Local-currency payments require a rate kind: OFFICIAL_USD, OFFICIAL_EUR or PARALLEL")
		}
		snapshot, err := s.rates.Current(ctx)
		if err != nil {
			return order.PaymentEntry{}, shared.ErrRateUnavailable
		}
		entry.RateKind = kind
		entry.Snapshot = snapshot
	}

	return entry, nil
}

// publishEvents publishes and clears the aggregate's pending events
func (s *PaymentService) publishEvents(ctx context.Context, o *order.Order) {
	if s.publisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("failed to publish domain events",
			zap.String("order_number", o.OrderNumber),
			zap.Error(err),
		)
	}
	o.ClearDomainEvents()
}
