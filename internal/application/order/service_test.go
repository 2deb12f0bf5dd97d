package order

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/exchange"
	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrderRepository is an in-memory order.Repository for service tests
type fakeOrderRepository struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*order.Order
	seq    int
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{orders: make(map[uuid.UUID]*order.Order)}
}

func (r *fakeOrderRepository) Save(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *o
	r.orders[o.ID] = &clone
	return nil
}

func (r *fakeOrderRepository) Update(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; !ok {
		return shared.ErrNotFound
	}
	clone := *o
	r.orders[o.ID] = &clone
	return nil
}

func (r *fakeOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *fakeOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			clone := *o
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepository) List(ctx context.Context, filter shared.Filter) (shared.Paginated[order.Order], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		items = append(items, *o)
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *fakeOrderRepository) AppendPayment(ctx context.Context, id uuid.UUID, apply func(o *order.Order) (*order.PaymentTransaction, error)) (*order.Order, *order.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil, shared.ErrNotFound
	}
	clone := *o
	tx, err := apply(&clone)
	if err != nil {
		return nil, nil, err
	}
	stored := clone
	r.orders[id] = &stored
	return &clone, tx, nil
}

func (r *fakeOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("ORD-%s-%05d", time.Now().Format("2006"), r.seq), nil
}

var _ order.Repository = (*fakeOrderRepository)(nil)

// staticRateProvider always serves the same snapshot
type staticRateProvider struct {
	snapshot *exchange.RateSnapshot
	err      error
}

func (p *staticRateProvider) Current(ctx context.Context) (*exchange.RateSnapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.snapshot, nil
}

func testRates() *staticRateProvider {
	return &staticRateProvider{snapshot: &exchange.RateSnapshot{
		OfficialUSD: decimal.RequireFromString("36.50"),
		Parallel:    decimal.RequireFromString("40.00"),
		FetchedAt:   time.Now(),
	}}
}

func newTestServices() (*OrderService, *PaymentService, *ExportService, *fakeOrderRepository) {
	repo := newFakeOrderRepository()
	policy := order.DefaultPricingPolicy()
	return NewOrderService(repo, policy, nil),
		NewPaymentService(repo, testRates(), policy, nil),
		NewExportService(repo),
		repo
}

func TestOrderServiceCreateOrder(t *testing.T) {
	svc, _, _, _ := newTestServices()
	ctx := context.Background()

	t.Run("creates order with mixed billing modes", func(t *testing.T) {
		resp, err := svc.CreateOrder(ctx, CreateOrderRequest{
			CustomerName: "Maria Lopez",
			Items: []LineItemRequest{
				{Description: "Business cards", Mode: "PER_UNIT", Quantity: 3, UnitPrice: decimal.RequireFromString("5.00")},
				{Description: "Banner", Mode: "PER_AREA", Quantity: 1, UnitPrice: decimal.RequireFromString("3.50"),
					WidthCm: decimal.NewFromInt(200), HeightCm: decimal.NewFromInt(100)},
				{Description: "Keychain", Mode: "PER_TIME", Quantity: 1, CutDuration: "05:30"},
			},
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.OrderNumber, "ORD-"))
		assert.Len(t, resp.Items, 3)
		// 15.00 + 7.00 + 4.40
		assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("26.40")))
		assert.Equal(t, "UNPAID", resp.PaymentStatus)
		assert.Equal(t, "PENDING", resp.LifecycleStatus)
	})

	t.Run("accepts incomplete draft lines", func(t *testing.T) {
		resp, err := svc.CreateOrder(ctx, CreateOrderRequest{
			CustomerName: "Carlos Perez",
			Items: []LineItemRequest{
				{Description: "Banner", Mode: "PER_AREA", Quantity: 2, UnitPrice: decimal.RequireFromString("3.50")},
			},
		})
		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.IsZero())
		assert.False(t, resp.Items[0].Complete)
	})

	t.Run("rejects invalid quantity", func(t *testing.T) {
		_, err := svc.CreateOrder(ctx, CreateOrderRequest{
			CustomerName: "Carlos Perez",
			Items: []LineItemRequest{
				{Description: "Cards", Mode: "PER_UNIT", Quantity: 0, UnitPrice: decimal.RequireFromString("5.00")},
			},
		})
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("rejects unknown billing mode", func(t *testing.T) {
		_, err := svc.CreateOrder(ctx, CreateOrderRequest{
			CustomerName: "Carlos Perez",
			Items:        []LineItemRequest{{Description: "Cards", Mode: "PER_WEIGHT", Quantity: 1}},
		})
		assert.Error(t, err)
	})
}

func TestOrderServiceLifecycle(t *testing.T) {
	svc, _, _, _ := newTestServices()
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, CreateOrderRequest{
		CustomerName: "Maria Lopez",
		Items: []LineItemRequest{
			{Description: "Cards", Mode: "PER_UNIT", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)

	started, err := svc.StartOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", started.LifecycleStatus)

	completed, err := svc.CompleteOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", completed.LifecycleStatus)

	_, err = svc.CancelOrder(ctx, created.ID, CancelOrderRequest{Reason: "too late"})
	assert.Error(t, err)
}

func TestOrderServiceReplaceItems(t *testing.T) {
	svc, paySvc, _, _ := newTestServices()
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, CreateOrderRequest{
		CustomerName: "Maria Lopez",
		Items: []LineItemRequest{
			{Description: "Cards", Mode: "PER_UNIT", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
		},
	})
	require.NoError(t, err)

	t.Run("replaces and reprices", func(t *testing.T) {
		resp, err := svc.ReplaceItems(ctx, created.ID, ReplaceItemsRequest{
			Items: []LineItemRequest{
				{Description: "Flyers", Mode: "PER_UNIT", Quantity: 10, UnitPrice: decimal.RequireFromString("2.00")},
			},
		})
		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("20.00")))
	})

	t.Run("locked once a payment exists", func(t *testing.T) {
		_, err := paySvc.RecordPayment(ctx, created.ID, RecordPaymentRequest{
			Amount: decimal.RequireFromString("5.00"), Currency: "BASE", Method: "CASH",
		})
		require.NoError(t, err)

		_, err = svc.ReplaceItems(ctx, created.ID, ReplaceItemsRequest{
			Items: []LineItemRequest{
				{Description: "Flyers", Mode: "PER_UNIT", Quantity: 1, UnitPrice: decimal.RequireFromString("2.00")},
			},
		})
		assert.Error(t, err)
	})
}

func TestPaymentServiceRecordPayment(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*OrderService, *PaymentService, uuid.UUID) {
		svc, paySvc, _, _ := newTestServices()
		created, err := svc.CreateOrder(ctx, CreateOrderRequest{
			CustomerName: "Maria Lopez",
			Items: []LineItemRequest{
				{Description: "Job", Mode: "PER_UNIT", Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")},
			},
		})
		require.NoError(t, err)
		return svc, paySvc, created.ID
	}

	t.Run("base currency payment", func(t *testing.T) {
		_, paySvc, orderID := setup(t)
		resp, err := paySvc.RecordPayment(ctx, orderID, RecordPaymentRequest{
			Amount: decimal.RequireFromString("40.00"), Currency: "BASE", Method: "CASH",
		})
		require.NoError(t, err)
		assert.Equal(t, "PARTIALLY_PAID", resp.PaymentStatus)
		assert.True(t, resp.PendingBalance.Equal(decimal.RequireFromString("60.00")))
	})

	t.Run("local currency converts at the provider snapshot", func(t *testing.T) {
		_, paySvc, orderID := setup(t)
		resp, err := paySvc.RecordPayment(ctx, orderID, RecordPaymentRequest{
			Amount: decimal.RequireFromString("2000.00"), Currency: "LOCAL",
			RateKind: "PARALLEL", Method: "MOBILE_PAYMENT",
		})
		require.NoError(t, err)
		assert.True(t, resp.AmountPaid.Equal(decimal.RequireFromString("50.00")))
		require.Len(t, resp.Payments, 1)
		assert.Contains(t, resp.Payments[0].Note, "parallel")
	})

	t.Run("local currency requires a rate kind", func(t *testing.T) {
		_, paySvc, orderID := setup(t)
		_, err := paySvc.RecordPayment(ctx, orderID, RecordPaymentRequest{
			Amount: decimal.RequireFromString("2000.00"), Currency: "LOCAL", Method: "CASH",
		})
		assert.Error(t, err)
	})

	t.Run("rate provider failure blocks local entries", func(t *testing.T) {
		repo := newFakeOrderRepository()
		policy := order.DefaultPricingPolicy()
		svc := NewOrderService(repo, policy, nil)
		paySvc := NewPaymentService(repo, &staticRateProvider{err: shared.ErrRateUnavailable}, policy, nil)

		created, err := svc.CreateOrder(ctx, CreateOrderRequest{
			CustomerName: "Maria Lopez",
			Items: []LineItemRequest{
				{Description: "Job", Mode: "PER_UNIT", Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")},
			},
		})
		require.NoError(t, err)

		_, err = paySvc.RecordPayment(ctx, created.ID, RecordPaymentRequest{
			Amount: decimal.RequireFromString("2000.00"), Currency: "LOCAL",
			RateKind: "PARALLEL", Method: "CASH",
		})
		assert.ErrorIs(t, err, shared.ErrRateUnavailable)
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		_, paySvc, orderID := setup(t)
		_, err := paySvc.RecordPayment(ctx, orderID, RecordPaymentRequest{
			Amount: decimal.RequireFromString("150.00"), Currency: "BASE", Method: "CASH",
		})
		assert.ErrorIs(t, err, shared.ErrOverpaymentRejected)
	})
}

func TestPaymentServiceSettleRemaining(t *testing.T) {
	ctx := context.Background()

	t.Run("derives the write-off from the ledger state", func(t *testing.T) {
		svc, paySvc, _, _ := newTestServices()
		created, err := svc.CreateOrder(ctx, CreateOrderRequest{
			CustomerName: "Maria Lopez",
			Items: []LineItemRequest{
				{Description: "Job", Mode: "PER_UNIT", Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")},
			},
		})
		require.NoError(t, err)

		_, err = paySvc.RecordPayment(ctx, created.ID, RecordPaymentRequest{
			Amount: decimal.RequireFromString("90.00"), Currency: "BASE", Method: "CASH",
		})
		require.NoError(t, err)

		resp, err := paySvc.SettleRemaining(ctx, created.ID, SettleRemainingRequest{
			Amount: decimal.RequireFromString("5.00"), Currency: "BASE", Method: "CASH",
		})
		require.NoError(t, err)
		assert.Equal(t, "PAID", resp.PaymentStatus)
		assert.True(t, resp.WriteOffTotal.Equal(decimal.RequireFromString("5.00")))
	})

	t.Run("ceiling still applies", func(t *testing.T) {
		repo := newFakeOrderRepository()
		policy := order.DefaultPricingPolicy()
		policy.WriteOffCeiling = decimal.RequireFromString("2.00")
		svc := NewOrderService(repo, policy, nil)
		paySvc := NewPaymentService(repo, testRates(), policy, nil)

		created, err := svc.CreateOrder(ctx, CreateOrderRequest{
			CustomerName: "Maria Lopez",
			Items: []LineItemRequest{
				{Description: "Job", Mode: "PER_UNIT", Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")},
			},
		})
		require.NoError(t, err)

		_, err = paySvc.SettleRemaining(ctx, created.ID, SettleRemainingRequest{
			Amount: decimal.RequireFromString("90.00"), Currency: "BASE", Method: "CASH",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "WRITE_OFF_EXCEEDS_CEILING", domainErr.Code)
	})
}

func TestExportService(t *testing.T) {
	ctx := context.Background()
	svc, paySvc, exportSvc, _ := newTestServices()

	created, err := svc.CreateOrder(ctx, CreateOrderRequest{
		CustomerName:  "Maria Lopez",
		CustomerPhone: "0412-5551234",
		Items: []LineItemRequest{
			{Description: "Business cards", Mode: "PER_UNIT", Quantity: 3, UnitPrice: decimal.RequireFromString("5.00")},
			{Description: "Keychain", Mode: "PER_TIME", Quantity: 2, CutDuration: "10:00"},
		},
	})
	require.NoError(t, err)

	_, err = paySvc.RecordPayment(ctx, created.ID, RecordPaymentRequest{
		Amount: decimal.RequireFromString("10.00"), Currency: "BASE", Method: "CASH", Note: "deposit",
	})
	require.NoError(t, err)

	doc, err := exportSvc.ExportOrder(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.OrderNumber, doc.OrderNumber)
	require.Len(t, doc.Lines, 2)
	// Stored subtotals only: 3 * 5.00 and 2 * (10 min * 0.80)
	assert.Equal(t, "15.00", doc.Lines[0].Subtotal)
	assert.Equal(t, "16.00", doc.Lines[1].Subtotal)
	assert.Equal(t, "31.00", doc.TotalAmount)
	assert.Equal(t, "10.00", doc.AmountPaid)
	assert.Equal(t, "21.00", doc.PendingBalance)
	require.Len(t, doc.Payments, 1)
	assert.Equal(t, "Cash", doc.Payments[0].Method)

	text := doc.RenderText()
	assert.Contains(t, text, created.OrderNumber)
	assert.Contains(t, text, "3x Business cards")
	assert.Contains(t, text, "Pending: 21.00")
}
