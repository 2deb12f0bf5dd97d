package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save creates a new order with its line items
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists the order using optimistic locking on the aggregate version.
// Line items are replaced wholesale since edits always go through ReplaceItems.
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", o.ID, o.Version-1).
			Select("*").
			Omit("Items", "id", "created_at").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Where("order_id = ?", o.ID).
			Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds an order with its line items by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds an order by its human-facing number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns a paginated page of orders matching the filter
func (r *GormOrderRepository) List(ctx context.Context, filter shared.Filter) (shared.Paginated[order.Order], error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	query = applyOrderFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[order.Order]{}, err
	}

	var orderModels []models.OrderModel
	page := query.Preload("Items")
	if filter.Page > 0 && filter.PageSize > 0 {
		page = page.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	page = applyOrderSort(page, filter)

	if err := page.Find(&orderModels).Error; err != nil {
		return shared.Paginated[order.Order]{}, err
	}

	orders := make([]order.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// AppendPayment serializes ledger appends per order. The row lock makes
// concurrent appends queue up: each apply callback runs against the ledger
// state its predecessor committed, so the overpayment check can never pass
// twice for the same remaining balance.
func (r *GormOrderRepository) AppendPayment(ctx context.Context, id uuid.UUID, apply func(o *order.Order) (*order.PaymentTransaction, error)) (*order.Order, *order.PaymentTransaction, error) {
	var (
		updated *order.Order
		applied *order.PaymentTransaction
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.OrderModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", id).
			Find(&model.Items).Error; err != nil {
			return err
		}

		o := model.ToDomain()
		transaction, err := apply(o)
		if err != nil {
			return err
		}

		result := tx.Model(&models.OrderModel{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"amount_paid":     o.AmountPaid,
				"write_off_total": o.WriteOffTotal,
				"payment_status":  o.PaymentStatus,
				"payments":        o.Payments,
				"version":         o.Version,
				"updated_at":      o.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}

		updated = o
		applied = transaction
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, applied, nil
}

// GenerateOrderNumber generates the next order number in ORD-YYYY-NNNNN form
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("ORD-%s-", time.Now().Format("2006"))

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("order_number").
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyOrderFilter applies search and field filters to the query
func applyOrderFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number LIKE ? OR customer_name LIKE ?",
			searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["payment_status"]; ok {
		query = query.Where("payment_status = ?", status)
	}
	if status, ok := filter.Filters["lifecycle_status"]; ok {
		query = query.Where("lifecycle_status = ?", status)
	}
	if customer, ok := filter.Filters["customer_name"]; ok {
		query = query.Where("customer_name = ?", customer)
	}
	return query
}

// applyOrderSort applies ordering with a whitelist of sortable columns
func applyOrderSort(query *gorm.DB, filter shared.Filter) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	dir := ValidateSortOrder(filter.OrderDir)
	return query.Order(field + " " + dir)
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
