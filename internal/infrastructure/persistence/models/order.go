package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber     string                    `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerName    string                    `gorm:"type:varchar(200);not null;index"`
	CustomerPhone   string                    `gorm:"type:varchar(50)"`
	Items           []LineItemModel           `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount     decimal.Decimal           `gorm:"type:decimal(18,6);not null"`
	AmountPaid      decimal.Decimal           `gorm:"type:decimal(18,6);not null"`
	WriteOffTotal   decimal.Decimal           `gorm:"type:decimal(18,6);not null"`
	PaymentStatus   order.PaymentStatus       `gorm:"type:varchar(20);not null;default:'UNPAID';index"`
	LifecycleStatus order.LifecycleStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Payments        order.PaymentTransactions `gorm:"type:jsonb;default:'[]'"`
	Notes           string                    `gorm:"type:text"`
	StartedAt       *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OrderNumber:     m.OrderNumber,
		CustomerName:    m.CustomerName,
		CustomerPhone:   m.CustomerPhone,
		TotalAmount:     m.TotalAmount,
		AmountPaid:      m.AmountPaid,
		WriteOffTotal:   m.WriteOffTotal,
		PaymentStatus:   m.PaymentStatus,
		LifecycleStatus: m.LifecycleStatus,
		Payments:        m.Payments,
		Notes:           m.Notes,
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
		CancelledAt:     m.CancelledAt,
		CancelReason:    m.CancelReason,
	}
	o.Items = make([]order.LineItem, len(m.Items))
	for i, item := range m.Items {
		o.Items[i] = *item.ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerName = o.CustomerName
	m.CustomerPhone = o.CustomerPhone
	m.TotalAmount = o.TotalAmount
	m.AmountPaid = o.AmountPaid
	m.WriteOffTotal = o.WriteOffTotal
	m.PaymentStatus = o.PaymentStatus
	m.LifecycleStatus = o.LifecycleStatus
	m.Payments = o.Payments
	m.Notes = o.Notes
	m.StartedAt = o.StartedAt
	m.CompletedAt = o.CompletedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason

	m.Items = make([]LineItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// LineItemModel is the persistence model for an order line item.
type LineItemModel struct {
	ID                uuid.UUID         `gorm:"type:uuid;primary_key"`
	OrderID           uuid.UUID         `gorm:"type:uuid;not null;index"`
	Description       string            `gorm:"type:varchar(500);not null"`
	Mode              order.BillingMode `gorm:"type:varchar(20);not null"`
	Quantity          int64             `gorm:"not null"`
	UnitPrice         decimal.Decimal   `gorm:"type:decimal(18,6);not null"`
	WidthCm           decimal.Decimal   `gorm:"type:decimal(12,4)"`
	HeightCm          decimal.Decimal   `gorm:"type:decimal(12,4)"`
	CutMinutes        int               `gorm:"not null;default:0"`
	CutSeconds        int               `gorm:"not null;default:0"`
	SuppliesMaterial  bool              `gorm:"not null;default:false"`
	MaterialSurcharge decimal.Decimal   `gorm:"type:decimal(18,6);not null"`
	ComputedSubtotal  decimal.Decimal   `gorm:"type:decimal(18,6);not null"`
	CreatedAt         time.Time         `gorm:"not null"`
	UpdatedAt         time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "order_line_items"
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *LineItemModel) ToDomain() *order.LineItem {
	return &order.LineItem{
		ID:                m.ID,
		OrderID:           m.OrderID,
		Description:       m.Description,
		Mode:              m.Mode,
		Quantity:          m.Quantity,
		UnitPrice:         m.UnitPrice,
		WidthCm:           m.WidthCm,
		HeightCm:          m.HeightCm,
		CutMinutes:        m.CutMinutes,
		CutSeconds:        m.CutSeconds,
		SuppliesMaterial:  m.SuppliesMaterial,
		MaterialSurcharge: m.MaterialSurcharge,
		ComputedSubtotal:  m.ComputedSubtotal,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain LineItem.
func (m *LineItemModel) FromDomain(item *order.LineItem) {
	m.ID = item.ID
	m.OrderID = item.OrderID
	m.Description = item.Description
	m.Mode = item.Mode
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.WidthCm = item.WidthCm
	m.HeightCm = item.HeightCm
	m.CutMinutes = item.CutMinutes
	m.CutSeconds = item.CutSeconds
	m.SuppliesMaterial = item.SuppliesMaterial
	m.MaterialSurcharge = item.MaterialSurcharge
	m.ComputedSubtotal = item.ComputedSubtotal
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
}
