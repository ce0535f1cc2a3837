package service

import (
	"context"
	"fmt"

	"bitpanda_tracker/internal/client"
	"bitpanda_tracker/internal/entity"
	"bitpanda_tracker/internal/port"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const tickerSnapshotKey = "ticker"

// tickerServiceImpl implements the TickerService interface. The latest
// snapshot lives in a single cache cell with no expiration: the cell holds
// exactly the most recent successful fetch and nothing else.
type tickerServiceImpl struct {
	logger        *zap.Logger
	client        client.BitpandaClient
	snapshotCache *cache.Cache
}

// NewTickerService creates a new instance of TickerService.
func NewTickerService(logger *zap.Logger, bitpandaClient client.BitpandaClient) port.TickerService {
	return &tickerServiceImpl{
		logger:        logger.Named("TickerService"),
		client:        bitpandaClient,
		snapshotCache: cache.New(cache.NoExpiration, 0),
	}
}

// Refresh fetches a new ticker snapshot and replaces the cached one
// wholesale. On failure the previous snapshot stays in place.
func (s *tickerServiceImpl) Refresh(ctx context.Context) error {
	snapshot, err := s.client.GetTicker(ctx)
	if err != nil {
		return fmt.Errorf("ticker refresh failed: %w", err)
	}
	s.snapshotCache.Set(tickerSnapshotKey, snapshot, cache.NoExpiration)
	s.logger.Debug("Ticker snapshot replaced", zap.Int("assetCount", len(snapshot)))
	return nil
}

// Snapshot returns the latest snapshot, nil before the first success.
func (s *tickerServiceImpl) Snapshot() entity.TickerSnapshot {
	v, ok := s.snapshotCache.Get(tickerSnapshotKey)
	if !ok {
		return nil
	}
	return v.(entity.TickerSnapshot)
}

// Lookup implements the TickerService interface.
func (s *tickerServiceImpl) Lookup(symbol, currency string) (string, bool) {
	snapshot := s.Snapshot()
	if snapshot == nil {
		return "", false
	}
	return snapshot.Price(symbol, currency)
}

// AllPrices implements the TickerService interface.
func (s *tickerServiceImpl) AllPrices(symbol string) map[string]string {
	snapshot := s.Snapshot()
	if snapshot == nil {
		return nil
	}
	return snapshot.AllPrices(symbol)
}

// AvailableCurrencies implements the TickerService interface.
func (s *tickerServiceImpl) AvailableCurrencies(ctx context.Context) ([]string, bool) {
	return s.client.AvailableCurrencies(ctx)
}
