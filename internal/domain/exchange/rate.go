package exchange

import (
	"context"
	"time"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RateKind identifies which of the three tracked exchange rates was used
// for a local-currency conversion
type RateKind string

const (
	RateOfficialUSD RateKind = "OFFICIAL_USD" // Central bank USD rate
	RateOfficialEUR RateKind = "OFFICIAL_EUR" // Central bank EUR rate (not always published)
	RateParallel    RateKind = "PARALLEL"     // Parallel-market rate
)

// IsValid checks if the rate kind is one of the tracked rates
func (k RateKind) IsValid() bool {
	switch k {
	case RateOfficialUSD, RateOfficialEUR, RateParallel:
		return true
	}
	return false
}

// String returns the string representation of RateKind
func (k RateKind) String() string {
	return string(k)
}

// Label returns a short human-readable tag used in payment audit notes
func (k RateKind) Label() string {
	switch k {
	case RateOfficialUSD:
		return "official"
	case RateOfficialEUR:
		return "official-eur"
	case RateParallel:
		return "parallel"
	}
	return string(k)
}

// RateSnapshot is one observation of the three exchange rates, expressed as
// local-currency units per base-currency unit. OfficialEUR is nil when the
// source did not publish a EUR rate; that is tolerated, not an error.
type RateSnapshot struct {
	OfficialUSD decimal.Decimal  `json:"official_usd"`
	OfficialEUR *decimal.Decimal `json:"official_eur,omitempty"`
	Parallel    decimal.Decimal  `json:"parallel"`
	FetchedAt   time.Time        `json:"fetched_at"`
}

// Rate returns the rate value for the requested kind.
// Fails with RATE_UNAVAILABLE when the kind is unknown, the rate is not
// positive, or the EUR rate is absent from this snapshot.
func (s *RateSnapshot) Rate(kind RateKind) (decimal.Decimal, error) {
	if s == nil {
		return decimal.Zero, shared.ErrRateUnavailable
	}
	switch kind {
	case RateOfficialUSD:
		if !s.OfficialUSD.IsPositive() {
			return decimal.Zero, shared.ErrRateUnavailable
		}
		return s.OfficialUSD, nil
	case RateOfficialEUR:
		if s.OfficialEUR == nil || !s.OfficialEUR.IsPositive() {
			return decimal.Zero, shared.ErrRateUnavailable
		}
		return *s.OfficialEUR, nil
	case RateParallel:
		if !s.Parallel.IsPositive() {
			return decimal.Zero, shared.ErrRateUnavailable
		}
		return s.Parallel, nil
	}
	return decimal.Zero, shared.ErrRateUnavailable
}

// ToBase converts a local-currency amount to base-currency units using the
// selected rate: base = local / rate
func (s *RateSnapshot) ToBase(localAmount decimal.Decimal, kind RateKind) (decimal.Decimal, error) {
	rate, err := s.Rate(kind)
	if err != nil {
		return decimal.Zero, err
	}
	return localAmount.Div(rate), nil
}

// Age returns how long ago this snapshot was fetched
func (s *RateSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// RateProvider supplies the most recently known rate snapshot.
// Implementations must keep returning the last successful snapshot when the
// upstream source fails; they never block a payment entry on a fetch.
type RateProvider interface {
	Current(ctx context.Context) (*RateSnapshot, error)
}
