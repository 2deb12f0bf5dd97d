package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apporder "github.com/printshop/backend/internal/application/order"
	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository implements order.Repository for handler tests
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter shared.Filter) (shared.Paginated[order.Order], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[order.Order]), args.Error(1)
}

// AppendPayment runs the apply callback against the expectation's order so
// domain validation still executes in handler tests
func (m *MockOrderRepository) AppendPayment(ctx context.Context, id uuid.UUID, apply func(o *order.Order) (*order.PaymentTransaction, error)) (*order.Order, *order.PaymentTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(1)
	}
	o := args.Get(0).(*order.Order)
	tx, err := apply(o)
	if err != nil {
		return nil, nil, err
	}
	return o, tx, args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

var _ order.Repository = (*MockOrderRepository)(nil)

func setupOrderRouter(repo order.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	policy := order.DefaultPricingPolicy()

	h := NewOrderHandler(
		apporder.NewOrderService(repo, policy, nil),
		apporder.NewPaymentService(repo, nil, policy, nil),
		apporder.NewExportService(repo),
	)

	engine := gin.New()
	api := engine.Group("/api/v1")
	h.RegisterRoutes(api)
	return engine
}

func orderFixture(t *testing.T, total string) *order.Order {
	t.Helper()
	o, err := order.NewOrder("ORD-2026-00042", "Maria Lopez", "")
	require.NoError(t, err)
	item, err := order.NewPerUnitLineItem("Job", 1, valueobject.NewMoneyUSD(decimal.RequireFromString(total)))
	require.NoError(t, err)
	require.NoError(t, o.AddItem(item, order.DefaultPricingPolicy()))
	o.ClearDomainEvents()
	return o
}

func TestOrderHandlerCreate(t *testing.T) {
	t.Run("creates order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GenerateOrderNumber", mock.Anything).Return("ORD-2026-00001", nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

		router := setupOrderRouter(repo)
		body, _ := json.Marshal(apporder.CreateOrderRequest{
			CustomerName: "Maria Lopez",
			Items: []apporder.LineItemRequest{
				{Description: "Cards", Mode: "PER_UNIT", Quantity: 3, UnitPrice: decimal.RequireFromString("5.00")},
			},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp struct {
			Success bool                   `json:"success"`
			Data    apporder.OrderResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "ORD-2026-00001", resp.Data.OrderNumber)
		assert.True(t, resp.Data.TotalAmount.Equal(decimal.RequireFromString("15.00")))
		repo.AssertExpectations(t)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		router := setupOrderRouter(new(MockOrderRepository))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unknown billing mode via binding", func(t *testing.T) {
		router := setupOrderRouter(new(MockOrderRepository))
		body := []byte(`{"customer_name":"Maria","items":[{"description":"x","mode":"PER_WEIGHT","quantity":1}]}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandlerGet(t *testing.T) {
	t.Run("returns order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		o := orderFixture(t, "100.00")
		repo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		router := setupOrderRouter(repo)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+o.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("maps not found to 404", func(t *testing.T) {
		repo := new(MockOrderRepository)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		router := setupOrderRouter(repo)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+id.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects non-uuid id", func(t *testing.T) {
		router := setupOrderRouter(new(MockOrderRepository))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandlerRecordPayment(t *testing.T) {
	t.Run("records base currency payment", func(t *testing.T) {
		repo := new(MockOrderRepository)
		o := orderFixture(t, "100.00")
		repo.On("AppendPayment", mock.Anything, o.ID).Return(o, nil)

		router := setupOrderRouter(repo)
		body := []byte(`{"amount":"40.00","currency":"BASE","method":"CASH"}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+o.ID.String()+"/payments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data apporder.OrderResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "PARTIALLY_PAID", resp.Data.PaymentStatus)
	})

	t.Run("overpayment maps to 422", func(t *testing.T) {
		repo := new(MockOrderRepository)
		o := orderFixture(t, "100.00")
		repo.On("AppendPayment", mock.Anything, o.ID).Return(o, nil)

		router := setupOrderRouter(repo)
		body := []byte(`{"amount":"150.00","currency":"BASE","method":"CASH"}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+o.ID.String()+"/payments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "OVERPAYMENT_REJECTED", resp.Error.Code)
	})

	t.Run("rejects unknown currency via binding", func(t *testing.T) {
		router := setupOrderRouter(new(MockOrderRepository))
		body := []byte(`{"amount":"40.00","currency":"EUR","method":"CASH"}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/payments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandlerCancel(t *testing.T) {
	repo := new(MockOrderRepository)
	o := orderFixture(t, "50.00")
	repo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

	router := setupOrderRouter(repo)
	body := []byte(`{"reason":"customer withdrew"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+o.ID.String()+"/cancel", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data apporder.OrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CANCELLED", resp.Data.LifecycleStatus)
	assert.Equal(t, "VOID", resp.Data.PaymentStatus)
}

func TestOrderHandlerExportReceipt(t *testing.T) {
	repo := new(MockOrderRepository)
	o := orderFixture(t, "75.00")
	repo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	router := setupOrderRouter(repo)

	t.Run("json document", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+o.ID.String()+"/receipt", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data apporder.ReceiptDocument `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ORD-2026-00042", resp.Data.OrderNumber)
		assert.Equal(t, "75.00", resp.Data.TotalAmount)
	})

	t.Run("plain text rendering", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+o.ID.String()+"/receipt?format=text", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Order ORD-2026-00042")
		assert.Contains(t, w.Body.String(), "Total:   75.00")
	})
}
