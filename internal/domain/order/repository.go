package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
)

// Repository provides access to the order aggregate
type Repository interface {
	Save(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[Order], error)

	// AppendPayment loads the order under a row lock, runs apply against the
	// fresh state and persists the result in the same transaction. Concurrent
	// appends to the same order serialize on the lock, so every apply sees the
	// ledger its predecessor left behind.
	AppendPayment(ctx context.Context, id uuid.UUID, apply func(o *Order) (*PaymentTransaction, error)) (*Order, *PaymentTransaction, error)

	// GenerateOrderNumber returns the next order number in ORD-YYYY-NNNNN form
	GenerateOrderNumber(ctx context.Context) (string, error)
}
