package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/printshop/backend/internal/domain/exchange"
	"github.com/shopspring/decimal"
)

// Fetcher retrieves a fresh rate snapshot from an upstream source
type Fetcher interface {
	Fetch(ctx context.Context) (*exchange.RateSnapshot, error)
}

// ratePayload is the upstream JSON document. EUR is optional; the source does
// not publish it every day.
type ratePayload struct {
	OfficialUSD decimal.Decimal  `json:"official_usd"`
	OfficialEUR *decimal.Decimal `json:"official_eur"`
	Parallel    decimal.Decimal  `json:"parallel"`
}

// HTTPFetcher fetches rate snapshots from an HTTP JSON endpoint
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for the given source URL
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves and validates the current rates from the source
func (f *HTTPFetcher) Fetch(ctx context.Context) (*exchange.RateSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate source unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate source returned status %d", resp.StatusCode)
	}

	var payload ratePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rate payload: %w", err)
	}

	if !payload.OfficialUSD.IsPositive() {
		return nil, fmt.Errorf("rate source returned non-positive official USD rate: %s", payload.OfficialUSD)
	}
	if !payload.Parallel.IsPositive() {
		return nil, fmt.Errorf("rate source returned non-positive parallel rate: %s", payload.Parallel)
	}
	if payload.OfficialEUR != nil && !payload.OfficialEUR.IsPositive() {
		// Treat a bogus EUR value the same as an absent one
		payload.OfficialEUR = nil
	}

	return &exchange.RateSnapshot{
		OfficialUSD: payload.OfficialUSD,
		OfficialEUR: payload.OfficialEUR,
		Parallel:    payload.Parallel,
		FetchedAt:   time.Now(),
	}, nil
}
