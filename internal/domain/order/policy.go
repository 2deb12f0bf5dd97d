package order

import "github.com/shopspring/decimal"

var (
	// DefaultTimeRatePerMinute is the shop-wide laser cutting rate in base
	// currency per minute. It applies to every time-billed line; the rate is
	// global, not per-line.
	DefaultTimeRatePerMinute = decimal.RequireFromString("0.80")

	// DefaultSettlementTolerance absorbs floating rounding when comparing
	// paid amounts against order totals. It is not a business allowance.
	DefaultSettlementTolerance = decimal.RequireFromString("0.10")
)

// PricingPolicy carries the shop-wide financial parameters.
// Values come from configuration; the defaults match the shop's current
// operating rules.
type PricingPolicy struct {
	// TimeRatePerMinute prices laser cutting time, per minute of cutting.
	TimeRatePerMinute decimal.Decimal
	// SettlementTolerance is the rounding guard used by the overpayment
	// check and by payment status derivation.
	SettlementTolerance decimal.Decimal
	// WriteOffCeiling caps the discount a settle-remaining payment may
	// write off. Zero or negative means unbounded.
	WriteOffCeiling decimal.Decimal
}

// DefaultPricingPolicy returns the shop's standard policy
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		TimeRatePerMinute:   DefaultTimeRatePerMinute,
		SettlementTolerance: DefaultSettlementTolerance,
		WriteOffCeiling:     decimal.Zero,
	}
}

// HasWriteOffCeiling returns true when a write-off cap is configured
func (p PricingPolicy) HasWriteOffCeiling() bool {
	return p.WriteOffCeiling.IsPositive()
}
