package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one billable line in a create or replace request.
// The mode decides which optional fields are required once the order starts
// production; drafts may omit them.
type LineItemRequest struct {
	Description       string          `json:"description" binding:"required,max=500"`
	Mode              string          `json:"mode" binding:"required,oneof=PER_UNIT PER_AREA PER_TIME"`
	Quantity          int64           `json:"quantity" binding:"required"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	WidthCm           decimal.Decimal `json:"width_cm"`
	HeightCm          decimal.Decimal `json:"height_cm"`
	CutDuration       string          `json:"cut_duration"` // MM:SS
	SuppliesMaterial  bool            `json:"supplies_material"`
	MaterialSurcharge decimal.Decimal `json:"material_surcharge"`
}

// CreateOrderRequest creates a new order with its initial lines
type CreateOrderRequest struct {
	CustomerName  string            `json:"customer_name" binding:"required,max=200"`
	CustomerPhone string            `json:"customer_phone" binding:"max=50"`
	Notes         string            `json:"notes"`
	Items         []LineItemRequest `json:"items" binding:"dive"`
}

// ReplaceItemsRequest swaps the full line list of a pending, unpaid order
type ReplaceItemsRequest struct {
	Items []LineItemRequest `json:"items" binding:"required,dive"`
}

// RecordPaymentRequest appends one payment to an order's ledger.
// WriteOff, when present, must equal the remaining difference and turns this
// entry into a settle-remaining payment.
type RecordPaymentRequest struct {
	Amount   decimal.Decimal  `json:"amount" binding:"required"`
	Currency string           `json:"currency" binding:"required,oneof=BASE LOCAL"`
	RateKind string           `json:"rate_kind" binding:"omitempty,oneof=OFFICIAL_USD OFFICIAL_EUR PARALLEL"`
	Method   string           `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CARD MOBILE_PAYMENT OTHER"`
	Note     string           `json:"note" binding:"max=500"`
	WriteOff *decimal.Decimal `json:"write_off"`
}

// SettleRemainingRequest settles the order with one final payment, writing
// off whatever difference remains afterwards.
type SettleRemainingRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required,oneof=BASE LOCAL"`
	RateKind string          `json:"rate_kind" binding:"omitempty,oneof=OFFICIAL_USD OFFICIAL_EUR PARALLEL"`
	Method   string          `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CARD MOBILE_PAYMENT OTHER"`
	Note     string          `json:"note" binding:"max=500"`
}

// CancelOrderRequest cancels an order with a reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderListFilter defines filtering options for order list queries
type OrderListFilter struct {
	Search          string `form:"search"`
	PaymentStatus   string `form:"payment_status"`
	LifecycleStatus string `form:"lifecycle_status"`
	CustomerName    string `form:"customer_name"`
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
	OrderBy         string `form:"order_by"`
	OrderDir        string `form:"order_dir"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	Description       string          `json:"description"`
	Mode              string          `json:"mode"`
	Quantity          int64           `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	WidthCm           decimal.Decimal `json:"width_cm,omitempty"`
	HeightCm          decimal.Decimal `json:"height_cm,omitempty"`
	CutDuration       string          `json:"cut_duration,omitempty"`
	SuppliesMaterial  bool            `json:"supplies_material"`
	MaterialSurcharge decimal.Decimal `json:"material_surcharge"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Complete          bool            `json:"complete"`
}

// PaymentResponse represents a ledger entry in API responses
type PaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	BaseAmount      decimal.Decimal `json:"base_amount"`
	EnteredCurrency string          `json:"entered_currency"`
	EnteredAmount   decimal.Decimal `json:"entered_amount"`
	RateKind        string          `json:"rate_kind,omitempty"`
	ConversionRate  decimal.Decimal `json:"conversion_rate,omitempty"`
	Method          string          `json:"method"`
	Note            string          `json:"note,omitempty"`
	WriteOffAmount  decimal.Decimal `json:"write_off_amount,omitempty"`
	RecordedAt      time.Time       `json:"recorded_at"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID          `json:"id"`
	OrderNumber     string             `json:"order_number"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone,omitempty"`
	Items           []LineItemResponse `json:"items"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	AmountPaid      decimal.Decimal    `json:"amount_paid"`
	PendingBalance  decimal.Decimal    `json:"pending_balance"`
	WriteOffTotal   decimal.Decimal    `json:"write_off_total"`
	PaymentStatus   string             `json:"payment_status"`
	LifecycleStatus string             `json:"lifecycle_status"`
	Payments        []PaymentResponse  `json:"payments"`
	Notes           string             `json:"notes,omitempty"`
	StartedAt       *time.Time         `json:"started_at,omitempty"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`
	CancelReason    string             `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Version         int                `json:"version"`
}

// toLineItemResponse maps a domain line item to its response form
func toLineItemResponse(item *order.LineItem) LineItemResponse {
	resp := LineItemResponse{
		ID:                item.ID,
		Description:       item.Description,
		Mode:              item.Mode.String(),
		Quantity:          item.Quantity,
		UnitPrice:         item.UnitPrice,
		WidthCm:           item.WidthCm,
		HeightCm:          item.HeightCm,
		SuppliesMaterial:  item.SuppliesMaterial,
		MaterialSurcharge: item.MaterialSurcharge,
		Subtotal:          item.ComputedSubtotal,
		Complete:          item.IsComplete(),
	}
	if item.Mode == order.BillingPerTime {
		resp.CutDuration = item.Duration().String()
	}
	return resp
}

// toPaymentResponse maps a ledger entry to its response form
func toPaymentResponse(tx *order.PaymentTransaction) PaymentResponse {
	return PaymentResponse{
		ID:              tx.ID,
		BaseAmount:      tx.BaseAmount,
		EnteredCurrency: string(tx.EnteredCurrency),
		EnteredAmount:   tx.EnteredAmount,
		RateKind:        tx.RateKind.String(),
		ConversionRate:  tx.ConversionRate,
		Method:          tx.Method.String(),
		Note:            tx.Note,
		WriteOffAmount:  tx.WriteOffAmount,
		RecordedAt:      tx.RecordedAt,
	}
}

// toOrderResponse maps a domain order to its response form
func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]LineItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = toLineItemResponse(&o.Items[i])
	}
	payments := make([]PaymentResponse, len(o.Payments))
	for i := range o.Payments {
		payments[i] = toPaymentResponse(&o.Payments[i])
	}
	return &OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		AmountPaid:      o.AmountPaid,
		PendingBalance:  o.PendingBalance(),
		WriteOffTotal:   o.WriteOffTotal,
		PaymentStatus:   o.PaymentStatus.String(),
		LifecycleStatus: o.LifecycleStatus.String(),
		Payments:        payments,
		Notes:           o.Notes,
		StartedAt:       o.StartedAt,
		CompletedAt:     o.CompletedAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}
