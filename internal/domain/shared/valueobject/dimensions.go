package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var cmPerMeter = decimal.NewFromInt(100)

// Dimensions holds the width and height of a printed/cut piece in centimeters
// A zero or missing dimension marks the line as incomplete, not invalid:
// pricing degrades to a zero subtotal so a draft can be saved mid-edit.
type Dimensions struct {
	WidthCm  decimal.Decimal `json:"width_cm"`
	HeightCm decimal.Decimal `json:"height_cm"`
}

// NewDimensions creates Dimensions from centimeter measurements
func NewDimensions(widthCm, heightCm decimal.Decimal) (Dimensions, error) {
	if widthCm.IsNegative() || heightCm.IsNegative() {
		return Dimensions{}, fmt.Errorf("dimensions cannot be negative: %s x %s", widthCm, heightCm)
	}
	return Dimensions{WidthCm: widthCm, HeightCm: heightCm}, nil
}

// IsComplete returns true when both dimensions are set and positive
func (d Dimensions) IsComplete() bool {
	return d.WidthCm.IsPositive() && d.HeightCm.IsPositive()
}

// AreaM2 returns the area in square meters at full decimal precision
// Returns zero when the dimensions are incomplete
func (d Dimensions) AreaM2() decimal.Decimal {
	if !d.IsComplete() {
		return decimal.Zero
	}
	return d.WidthCm.Div(cmPerMeter).Mul(d.HeightCm.Div(cmPerMeter))
}

// String returns a human-readable representation
func (d Dimensions) String() string {
	return fmt.Sprintf("%s x %s cm", d.WidthCm, d.HeightCm)
}
