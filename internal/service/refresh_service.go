package service

import (
	"context"
	"sync/atomic"
	"time"

	"bitpanda_tracker/internal/port"
	"bitpanda_tracker/pkg/metrics"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	cadencePrice  = "price"
	cadenceWallet = "wallet"
)

// refreshServiceImpl implements the RefreshService interface: two
// independent ticker loops, one per cadence. Each loop body runs its
// refresh inline, so time.Ticker drops ticks while a fetch is in flight
// and no cadence ever has two concurrent fetches. The cadences themselves
// are free to overlap with each other.
type refreshServiceImpl struct {
	logger         *zap.Logger
	tickerSvc      port.TickerService
	walletSvc      port.WalletService
	priceInterval  time.Duration
	walletInterval time.Duration
	priceOK        atomic.Bool
	walletOK       atomic.Bool
}

// NewRefreshService creates a new instance of RefreshService.
func NewRefreshService(
	logger *zap.Logger,
	tickerSvc port.TickerService,
	walletSvc port.WalletService,
	priceInterval time.Duration,
	walletInterval time.Duration,
) port.RefreshService {
	return &refreshServiceImpl{
		logger:         logger.Named("RefreshService"),
		tickerSvc:      tickerSvc,
		walletSvc:      walletSvc,
		priceInterval:  priceInterval,
		walletInterval: walletInterval,
	}
}

// Start performs the cold-start refresh of both cadences and only then
// launches the periodic loops. A failed first fetch on either cadence
// aborts startup; after that, failures only mark the cadence unhealthy
// and the next tick retries unconditionally.
func (s *refreshServiceImpl) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.tickerSvc.Refresh(gctx); err != nil {
			return errors.Wrap(err, "initial price fetch failed")
		}
		s.markCadence(cadencePrice, true)
		return nil
	})
	g.Go(func() error {
		if err := s.walletSvc.Refresh(gctx); err != nil {
			return errors.Wrap(err, "initial wallet fetch failed")
		}
		s.markCadence(cadenceWallet, true)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("Initial snapshots fetched",
		zap.Duration("priceInterval", s.priceInterval),
		zap.Duration("walletInterval", s.walletInterval))

	go s.runLoop(ctx, cadencePrice, s.priceInterval, s.refreshPrices)
	go s.runLoop(ctx, cadenceWallet, s.walletInterval, s.refreshWallets)
	return nil
}

// LastPriceUpdateOK implements the RefreshService interface.
func (s *refreshServiceImpl) LastPriceUpdateOK() bool {
	return s.priceOK.Load()
}

// LastWalletUpdateOK implements the RefreshService interface.
func (s *refreshServiceImpl) LastWalletUpdateOK() bool {
	return s.walletOK.Load()
}

func (s *refreshServiceImpl) runLoop(ctx context.Context, cadence string, interval time.Duration, refresh func(ctx context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Refresh loop stopped", zap.String("cadence", cadence))
			return
		case <-ticker.C:
			refresh(ctx)
		}
	}
}

func (s *refreshServiceImpl) refreshPrices(ctx context.Context) {
	if err := s.tickerSvc.Refresh(ctx); err != nil {
		s.markCadence(cadencePrice, false)
		s.logger.Error("Price refresh failed, keeping previous snapshot", zap.Error(err))
		return
	}
	s.markCadence(cadencePrice, true)
}

func (s *refreshServiceImpl) refreshWallets(ctx context.Context) {
	if err := s.walletSvc.Refresh(ctx); err != nil {
		s.markCadence(cadenceWallet, false)
		s.logger.Error("Wallet refresh failed, keeping previous snapshot", zap.Error(err))
		return
	}
	s.markCadence(cadenceWallet, true)
}

func (s *refreshServiceImpl) markCadence(cadence string, ok bool) {
	value := 0.0
	if ok {
		value = 1.0
	}
	switch cadence {
	case cadencePrice:
		s.priceOK.Store(ok)
	case cadenceWallet:
		s.walletOK.Store(ok)
	}
	metrics.LastUpdateSuccess.WithLabelValues(cadence).Set(value)
}
