package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/printshop/backend/internal/domain/exchange"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const snapshotKey = "rates:last_good"

// CachedProvider serves the most recent successfully fetched snapshot.
// A failed refresh never evicts the last good snapshot: payments keep
// converting at the last known rates until the source recovers. The snapshot
// is mirrored to Redis so a restart does not lose it.
type CachedProvider struct {
	fetcher  Fetcher
	redis    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger

	mu       sync.RWMutex
	lastGood *exchange.RateSnapshot
}

// CachedProviderOption configures a CachedProvider
type CachedProviderOption func(*CachedProvider)

// WithRedis mirrors the last-good snapshot to Redis with the given TTL
func WithRedis(client *redis.Client, ttl time.Duration) CachedProviderOption {
	return func(p *CachedProvider) {
		p.redis = client
		p.cacheTTL = ttl
	}
}

// WithLogger sets the provider's logger
func WithLogger(logger *zap.Logger) CachedProviderOption {
	return func(p *CachedProvider) {
		p.logger = logger
	}
}

// NewCachedProvider creates a provider around the given fetcher
func NewCachedProvider(fetcher Fetcher, opts ...CachedProviderOption) *CachedProvider {
	p := &CachedProvider{
		fetcher:  fetcher,
		cacheTTL: 72 * time.Hour,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Current returns the last good snapshot, fetching one first if none is
// cached yet. Returns RATE_UNAVAILABLE only when no snapshot has ever been
// obtained from any source.
func (p *CachedProvider) Current(ctx context.Context) (*exchange.RateSnapshot, error) {
	p.mu.RLock()
	snapshot := p.lastGood
	p.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}

	if snapshot = p.restoreFromRedis(ctx); snapshot != nil {
		p.mu.Lock()
		p.lastGood = snapshot
		p.mu.Unlock()
		return snapshot, nil
	}

	if err := p.Refresh(ctx); err != nil {
		return nil, shared.ErrRateUnavailable
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastGood, nil
}

// Refresh fetches a fresh snapshot and replaces the cached one on success.
// On failure the previous snapshot stays in place.
func (p *CachedProvider) Refresh(ctx context.Context) error {
	snapshot, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.logger.Warn("rate refresh failed, keeping last good snapshot", zap.Error(err))
		return err
	}

	p.mu.Lock()
	p.lastGood = snapshot
	p.mu.Unlock()

	p.storeInRedis(ctx, snapshot)

	p.logger.Info("rates refreshed",
		zap.String("official_usd", snapshot.OfficialUSD.String()),
		zap.String("parallel", snapshot.Parallel.String()),
		zap.Bool("has_eur", snapshot.OfficialEUR != nil),
	)
	return nil
}

// Poll refreshes on the given interval until the context is cancelled
func (p *CachedProvider) Poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.Refresh(ctx)
		}
	}
}

func (p *CachedProvider) storeInRedis(ctx context.Context, snapshot *exchange.RateSnapshot) {
	if p.redis == nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		p.logger.Warn("failed to marshal rate snapshot for cache", zap.Error(err))
		return
	}
	if err := p.redis.Set(ctx, snapshotKey, data, p.cacheTTL).Err(); err != nil {
		p.logger.Warn("failed to cache rate snapshot in redis", zap.Error(err))
	}
}

func (p *CachedProvider) restoreFromRedis(ctx context.Context) *exchange.RateSnapshot {
	if p.redis == nil {
		return nil
	}
	data, err := p.redis.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			p.logger.Warn("failed to read rate snapshot from redis", zap.Error(err))
		}
		return nil
	}
	var snapshot exchange.RateSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		p.logger.Warn("failed to unmarshal cached rate snapshot", zap.Error(err))
		return nil
	}
	return &snapshot
}

// Ensure CachedProvider implements exchange.RateProvider
var _ exchange.RateProvider = (*CachedProvider)(nil)

// NewRedisClient creates a Redis client and verifies the connection
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
