package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printshop/backend/internal/domain/exchange"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRateProvider struct {
	snapshot  *exchange.RateSnapshot
	err       error
	refreshed bool
}

func (p *stubRateProvider) Current(ctx context.Context) (*exchange.RateSnapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.snapshot, nil
}

func (p *stubRateProvider) Refresh(ctx context.Context) error {
	p.refreshed = true
	return nil
}

func setupRatesRouter(provider exchange.RateProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewRatesHandler(provider).RegisterRoutes(api)
	return engine
}

func TestRatesHandlerCurrent(t *testing.T) {
	t.Run("returns snapshot", func(t *testing.T) {
		eur := decimal.RequireFromString("39.80")
		provider := &stubRateProvider{snapshot: &exchange.RateSnapshot{
			OfficialUSD: decimal.RequireFromString("36.50"),
			OfficialEUR: &eur,
			Parallel:    decimal.RequireFromString("40.00"),
			FetchedAt:   time.Now().Add(-time.Minute),
		}}

		router := setupRatesRouter(provider)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rates/current", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data RateSnapshotResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.OfficialUSD.Equal(decimal.RequireFromString("36.50")))
		require.NotNil(t, resp.Data.OfficialEUR)
		assert.GreaterOrEqual(t, resp.Data.AgeSeconds, int64(59))
	})

	t.Run("maps unavailable rates to 503", func(t *testing.T) {
		router := setupRatesRouter(&stubRateProvider{err: shared.ErrRateUnavailable})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rates/current", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRatesHandlerRefresh(t *testing.T) {
	provider := &stubRateProvider{snapshot: &exchange.RateSnapshot{
		OfficialUSD: decimal.RequireFromString("36.50"),
		Parallel:    decimal.RequireFromString("40.00"),
		FetchedAt:   time.Now(),
	}}

	router := setupRatesRouter(provider)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/rates/refresh", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, provider.refreshed)
}
