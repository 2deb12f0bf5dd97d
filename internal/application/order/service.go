package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/printshop/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// OrderService provides application-level order operations
type OrderService struct {
	repo      order.Repository
	policy    order.PricingPolicy
	publisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(repo order.Repository, policy order.PricingPolicy, publisher shared.EventPublisher) *OrderService {
	return &OrderService{
		repo:      repo,
		policy:    policy,
		publisher: publisher,
	}
}

// CreateOrder creates a new order with its initial line items
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	orderNumber, err := s.repo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(orderNumber, req.CustomerName, req.CustomerPhone)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		o.SetNotes(req.Notes)
	}

	for _, itemReq := range req.Items {
		item, err := buildLineItem(itemReq)
		if err != nil {
			return nil, err
		}
		if err := o.AddItem(item, s.policy); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)

	logger.L(ctx).Info("order created",
		zap.String("order_number", o.OrderNumber),
		zap.String("total_amount", o.TotalAmount.String()),
		zap.Int("item_count", o.ItemCount()),
	)
	return toOrderResponse(o), nil
}

// GetOrder gets an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// GetOrderByNumber gets an order by its human-facing number
func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	o, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// ListOrders lists orders with filtering and pagination
func (s *OrderService) ListOrders(ctx context.Context, filter OrderListFilter) (shared.Paginated[OrderResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}
	if filter.LifecycleStatus != "" {
		domainFilter.Filters["lifecycle_status"] = filter.LifecycleStatus
	}
	if filter.CustomerName != "" {
		domainFilter.Filters["customer_name"] = filter.CustomerName
	}

	page, err := s.repo.List(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}

	responses := make([]OrderResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = *toOrderResponse(&page.Items[i])
	}
	return shared.NewPaginated(responses, page.Total, page.Page, page.PageSize), nil
}

// ReplaceItems swaps the full line list of an order that has no payments yet
func (s *OrderService) ReplaceItems(ctx context.Context, id uuid.UUID, req ReplaceItemsRequest) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]*order.LineItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		item, err := buildLineItem(itemReq)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := o.ReplaceItems(items, s.policy); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("order items replaced",
		zap.String("order_number", o.OrderNumber),
		zap.String("total_amount", o.TotalAmount.String()),
	)
	return toOrderResponse(o), nil
}

// StartOrder moves an order into production
func (s *OrderService) StartOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, func(o *order.Order) error { return o.Start() })
}

// CompleteOrder marks an order as finished
func (s *OrderService) CompleteOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, func(o *order.Order) error { return o.Complete() })
}

// CancelOrder cancels an order and voids its payment status
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	resp, err := s.transition(ctx, id, func(o *order.Order) error { return o.Cancel(req.Reason) })
	if err != nil {
		return nil, err
	}
	logger.L(ctx).Info("order cancelled",
		zap.String("order_number", resp.OrderNumber),
		zap.String("reason", req.Reason),
	)
	return resp, nil
}

// transition loads, mutates and persists an order through one lifecycle change
func (s *OrderService) transition(ctx context.Context, id uuid.UUID, fn func(o *order.Order) error) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)
	return toOrderResponse(o), nil
}

// publishEvents publishes and clears the aggregate's pending events.
// Event delivery is best effort; a failed publish never fails the operation.
func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
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

// buildLineItem converts a line item request into a domain line item
func buildLineItem(req LineItemRequest) (*order.LineItem, error) {
	mode := order.BillingMode(req.Mode)
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_BILLING_MODE", "Billing mode must be PER_UNIT, PER_AREA or PER_TIME")
	}

	unitPrice := valueobject.NewMoneyUSD(req.UnitPrice)

	var item *order.LineItem
	var err error
	switch mode {
	case order.BillingPerUnit:
		item, err = order.NewPerUnitLineItem(req.Description, req.Quantity, unitPrice)
	case order.BillingPerArea:
		dims, dimsErr := valueobject.NewDimensions(req.WidthCm, req.HeightCm)
		if dimsErr != nil {
			return nil, shared.NewDomainError("INVALID_DIMENSIONS", dimsErr.Error())
		}
		item, err = order.NewPerAreaLineItem(req.Description, req.Quantity, unitPrice, dims)
	case order.BillingPerTime:
		duration := valueobject.CutDuration{}
		if req.CutDuration != "" {
			var parseErr error
			duration, parseErr = valueobject.ParseCutDuration(req.CutDuration)
			if parseErr != nil {
				return nil, shared.NewDomainError("INVALID_DURATION", parseErr.Error())
			}
		}
		item, err = order.NewPerTimeLineItem(req.Description, req.Quantity, duration)
	}
	if err != nil {
		return nil, err
	}

	if req.SuppliesMaterial {
		if _, err := item.WithMaterial(valueobject.NewMoneyUSD(req.MaterialSurcharge)); err != nil {
			return nil, err
		}
	}
	return item, nil
}
