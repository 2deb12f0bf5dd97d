package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printshop/backend/internal/domain/exchange"
	"github.com/shopspring/decimal"
)

// RateSnapshotResponse represents the current exchange rates in API responses
type RateSnapshotResponse struct {
	OfficialUSD decimal.Decimal  `json:"official_usd"`
	OfficialEUR *decimal.Decimal `json:"official_eur,omitempty"`
	Parallel    decimal.Decimal  `json:"parallel"`
	FetchedAt   time.Time        `json:"fetched_at"`
	AgeSeconds  int64            `json:"age_seconds"`
}

// RatesHandler exposes the exchange rate snapshot used for local-currency
// payment conversion
type RatesHandler struct {
	BaseHandler
	provider exchange.RateProvider
}

// NewRatesHandler creates a new RatesHandler
func NewRatesHandler(provider exchange.RateProvider) *RatesHandler {
	return &RatesHandler{provider: provider}
}

// Current returns the most recently known rate snapshot
func (h *RatesHandler) Current(c *gin.Context) {
	snapshot, err := h.provider.Current(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRateSnapshotResponse(snapshot))
}

// RateRefresher is implemented by providers that can force an upstream fetch
type RateRefresher interface {
	Refresh(ctx context.Context) error
}

// Refresh forces a fetch from the upstream source. A failed fetch keeps the
// last good snapshot, so this returns whatever is current afterwards.
func (h *RatesHandler) Refresh(c *gin.Context) {
	if refresher, ok := h.provider.(RateRefresher); ok {
		_ = refresher.Refresh(c.Request.Context())
	}
	h.Current(c)
}

func toRateSnapshotResponse(s *exchange.RateSnapshot) RateSnapshotResponse {
	return RateSnapshotResponse{
		OfficialUSD: s.OfficialUSD,
		OfficialEUR: s.OfficialEUR,
		Parallel:    s.Parallel,
		FetchedAt:   s.FetchedAt,
		AgeSeconds:  int64(s.Age(time.Now()).Seconds()),
	}
}

// RegisterRoutes registers all exchange rate routes
func (h *RatesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/rates")
	{
		group.GET("/current", h.Current)
		group.POST("/refresh", h.Refresh)
	}
}
