package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apporder "github.com/printshop/backend/internal/application/order"
	"github.com/printshop/backend/internal/interfaces/http/dto"
)

// OrderHandler handles order lifecycle, payment and export endpoints
type OrderHandler struct {
	BaseHandler
	orders   *apporder.OrderService
	payments *apporder.PaymentService
	exports  *apporder.ExportService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *apporder.OrderService, payments *apporder.PaymentService, exports *apporder.ExportService) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		payments: payments,
		exports:  exports,
	}
}

// Create creates a new order with its initial line items
func (h *OrderHandler) Create(c *gin.Context) {
	var req apporder.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one order by ID
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber returns one order by its human-facing order number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	resp, err := h.orders.GetOrderByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a filtered, paginated page of orders
func (h *OrderHandler) List(c *gin.Context) {
	var filter apporder.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ReplaceItems swaps the full line list of a pending, unpaid order
func (h *OrderHandler) ReplaceItems(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req apporder.ReplaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orders.ReplaceItems(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Start moves an order into production
func (h *OrderHandler) Start(c *gin.Context) {
	h.transition(c, h.orders.StartOrder)
}

// Complete marks an order as finished
func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.orders.CompleteOrder)
}

// Cancel cancels an order with a reason, voiding its payment status
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req apporder.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orders.CancelOrder(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordPayment appends one payment to the order's ledger
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req apporder.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.payments.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SettleRemaining records one final payment and writes off the remainder
func (h *OrderHandler) SettleRemaining(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req apporder.SettleRemainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.payments.SettleRemaining(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ExportReceipt returns the printable receipt for an order.
// With ?format=text the response is the plain-text rendering used by
// thermal printers; the default is the structured JSON document.
func (h *OrderHandler) ExportReceipt(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	doc, err := h.exports.ExportOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(http.StatusOK, doc.RenderText())
		return
	}
	h.Success(c, doc)
}

// transition runs one lifecycle change identified by the path ID
func (h *OrderHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*apporder.OrderResponse, error)) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// bindID parses the :id path parameter
func (h *OrderHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return uuid.Nil, false
	}
	return id, true
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.GET("/number/:number", h.GetByNumber)
		orders.PUT("/:id/items", h.ReplaceItems)
		orders.POST("/:id/start", h.Start)
		orders.POST("/:id/complete", h.Complete)
		orders.POST("/:id/cancel", h.Cancel)
		orders.POST("/:id/payments", h.RecordPayment)
		orders.POST("/:id/settle", h.SettleRemaining)
		orders.GET("/:id/receipt", h.ExportReceipt)
	}
}
