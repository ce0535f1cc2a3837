package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// long intervals keep the periodic loops from ticking during a test; only
// the cold-start refresh and direct tick invocations run.
const testInterval = time.Hour

func newRefreshFixture(t *testing.T) (*refreshServiceImpl, *fakeBitpandaClient) {
	t.Helper()
	fake := newTestWalletClient(t)
	fake.ticker = newTestTicker()
	tickerSvc := NewTickerService(zap.NewNop(), fake)
	walletSvc := NewWalletService(zap.NewNop(), fake)
	svc := NewRefreshService(zap.NewNop(), tickerSvc, walletSvc, testInterval, testInterval).(*refreshServiceImpl)
	return svc, fake
}

func TestRefreshService_StartSucceeds(t *testing.T) {
	svc, _ := newRefreshFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.Start(ctx))
	require.True(t, svc.LastPriceUpdateOK())
	require.True(t, svc.LastWalletUpdateOK())
	require.NotNil(t, svc.tickerSvc.Snapshot())
	require.NotNil(t, svc.walletSvc.Snapshot())
}

func TestRefreshService_ColdStartFailsFast(t *testing.T) {
	svc, fake := newRefreshFixture(t)
	fake.fiatErr = errors.New("unauthorized")

	err := svc.Start(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "initial wallet fetch failed")
}

func TestRefreshService_FailedWalletTickFlipsOnlyWalletFlag(t *testing.T) {
	svc, fake := newRefreshFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Start(ctx))

	before := svc.walletSvc.Snapshot()

	fake.assetErr = errors.New("upstream 502")
	svc.refreshWallets(ctx)

	require.False(t, svc.LastWalletUpdateOK())
	require.True(t, svc.LastPriceUpdateOK(), "price cadence must be unaffected")
	// Previously tracked valuations stay numerically unchanged: the prior
	// snapshot is retained.
	require.Equal(t, before, svc.walletSvc.Snapshot())
}

func TestRefreshService_NextTickRecovers(t *testing.T) {
	svc, fake := newRefreshFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Start(ctx))

	fake.tickerErr = errors.New("timeout")
	svc.refreshPrices(ctx)
	require.False(t, svc.LastPriceUpdateOK())

	fake.tickerErr = nil
	svc.refreshPrices(ctx)
	require.True(t, svc.LastPriceUpdateOK())
}
