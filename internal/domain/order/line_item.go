package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BillingMode selects how a line item's price is computed
type BillingMode string

const (
	BillingPerUnit BillingMode = "PER_UNIT" // Flat price per piece
	BillingPerArea BillingMode = "PER_AREA" // Price per square meter of material
	BillingPerTime BillingMode = "PER_TIME" // Laser cutting time at the shop-wide minute rate
)

// IsValid checks if the mode is a valid BillingMode
func (m BillingMode) IsValid() bool {
	switch m {
	case BillingPerUnit, BillingPerArea, BillingPerTime:
		return true
	}
	return false
}

// String returns the string representation of BillingMode
func (m BillingMode) String() string {
	return string(m)
}

// LineItem is one billable line of an order. The mode decides which of the
// optional fields are meaningful: dimensions for PER_AREA, cutting duration
// for PER_TIME. Use the per-mode constructors; they reject parameters that
// do not belong to the mode.
type LineItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	Description string
	Mode        BillingMode
	Quantity    int64
	// UnitPrice is the price per piece (PER_UNIT) or per m² (PER_AREA).
	// Time-billed lines ignore it; their rate is the shop-wide policy rate.
	UnitPrice         decimal.Decimal
	WidthCm           decimal.Decimal
	HeightCm          decimal.Decimal
	CutMinutes        int
	CutSeconds        int
	SuppliesMaterial  bool
	MaterialSurcharge decimal.Decimal // per unit, applied before the quantity multiply
	// ComputedSubtotal is derived from the fields above. It is recomputed on
	// every edit and is the only subtotal value anything downstream reads.
	ComputedSubtotal decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func newLineItem(description string, mode BillingMode, quantity int64, unitPrice valueobject.Money) (*LineItem, error) {
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Unit price cannot be negative")
	}
	now := time.Now()
	return &LineItem{
		ID:          uuid.New(),
		Description: description,
		Mode:        mode,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewPerUnitLineItem creates a flat per-piece line
func NewPerUnitLineItem(description string, quantity int64, unitPrice valueobject.Money) (*LineItem, error) {
	return newLineItem(description, BillingPerUnit, quantity, unitPrice)
}

// NewPerAreaLineItem creates an area-billed line; unitPrice is per m².
// Incomplete dimensions are accepted so a draft can be saved mid-edit; the
// subtotal stays zero until both dimensions are positive.
func NewPerAreaLineItem(description string, quantity int64, unitPrice valueobject.Money, dims valueobject.Dimensions) (*LineItem, error) {
	li, err := newLineItem(description, BillingPerArea, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	li.WidthCm = dims.WidthCm
	li.HeightCm = dims.HeightCm
	return li, nil
}

// NewPerTimeLineItem creates a time-billed laser cutting line. The price
// comes from the policy's minute rate, never from a per-line price.
func NewPerTimeLineItem(description string, quantity int64, duration valueobject.CutDuration) (*LineItem, error) {
	li, err := newLineItem(description, BillingPerTime, quantity, valueobject.ZeroUSD())
	if err != nil {
		return nil, err
	}
	li.CutMinutes = duration.Minutes
	li.CutSeconds = duration.Seconds
	return li, nil
}

// WithMaterial marks the line as shop-supplied material with a per-unit surcharge
func (i *LineItem) WithMaterial(surcharge valueobject.Money) (*LineItem, error) {
	if surcharge.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Material surcharge cannot be negative")
	}
	i.SuppliesMaterial = true
	i.MaterialSurcharge = surcharge.Amount()
	i.UpdatedAt = time.Now()
	return i, nil
}

// Dimensions returns the line's geometry as a value object
func (i *LineItem) Dimensions() valueobject.Dimensions {
	return valueobject.Dimensions{WidthCm: i.WidthCm, HeightCm: i.HeightCm}
}

// Duration returns the line's cutting time as a value object
func (i *LineItem) Duration() valueobject.CutDuration {
	return valueobject.CutDuration{Minutes: i.CutMinutes, Seconds: i.CutSeconds}
}

// IsComplete reports whether the mode's required parameters are present.
// Incomplete lines price at zero and block the order from entering production.
func (i *LineItem) IsComplete() bool {
	switch i.Mode {
	case BillingPerArea:
		return i.Dimensions().IsComplete()
	case BillingPerTime:
		return !i.Duration().IsZero()
	}
	return true
}

// Subtotal computes the line's monetary subtotal in base currency.
// Pure arithmetic over already-validated inputs: same inputs always yield
// the same output, and an incomplete line yields zero rather than an error
// so drafts survive mid-edit saves.
//
//	subtotal = (base + materialSurcharge) * quantity
func (i *LineItem) Subtotal(policy PricingPolicy) decimal.Decimal {
	if !i.IsComplete() {
		return decimal.Zero
	}

	var base decimal.Decimal
	switch i.Mode {
	case BillingPerUnit:
		base = i.UnitPrice
	case BillingPerArea:
		base = i.Dimensions().AreaM2().Mul(i.UnitPrice)
	case BillingPerTime:
		base = i.Duration().TotalMinutes().Mul(policy.TimeRatePerMinute)
	default:
		return decimal.Zero
	}

	if i.SuppliesMaterial {
		base = base.Add(i.MaterialSurcharge)
	}
	return base.Mul(decimal.NewFromInt(i.Quantity))
}

// Recompute refreshes ComputedSubtotal from the line's current parameters
func (i *LineItem) Recompute(policy PricingPolicy) {
	i.ComputedSubtotal = i.Subtotal(policy)
	i.UpdatedAt = time.Now()
}

// UpdateQuantity changes the quantity and recomputes the subtotal
func (i *LineItem) UpdateQuantity(quantity int64, policy PricingPolicy) error {
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}
	i.Quantity = quantity
	i.Recompute(policy)
	return nil
}

// UpdateUnitPrice changes the unit price and recomputes the subtotal
func (i *LineItem) UpdateUnitPrice(unitPrice valueobject.Money, policy PricingPolicy) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Unit price cannot be negative")
	}
	i.UnitPrice = unitPrice.Amount()
	i.Recompute(policy)
	return nil
}

// GetSubtotalMoney returns the computed subtotal as Money
func (i *LineItem) GetSubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.ComputedSubtotal)
}
