package service

import (
	"context"
	"errors"
	"testing"

	"bitpanda_tracker/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const assetWalletsFixture = `{
	"data": {
		"type": "asset_wallets",
		"attributes": {
			"cryptocoin": {
				"attributes": {
					"wallets": [
						{"id": "w1", "attributes": {"cryptocoin_symbol": "BTC", "balance": "0.5"}},
						{"id": "w2", "attributes": {"cryptocoin_symbol": "ETH", "balance": "2.0"}},
						{"id": "w3", "attributes": {"balance": "9.9"}}
					]
				}
			},
			"commodity": {
				"metal": {
					"attributes": {
						"wallets": [
							{"id": "w4", "attributes": {"cryptocoin_symbol": "XAU", "balance": "1.25"}}
						]
					}
				}
			},
			"index": {
				"index": {
					"attributes": {
						"wallets": [
							{"id": "w5", "attributes": {"cryptocoin_symbol": "BCI5", "balance": "10"}}
						]
					}
				},
				"empty_sub": {}
			},
			"security": {
				"attributes": {
					"wallets": [
						{"id": "w6", "attributes": {"cryptocoin_symbol": "TSLA", "balance": "3"}}
					]
				}
			},
			"equity_security": {
				"attributes": {
					"wallets": [
						{"id": "w7", "attributes": {"cryptocoin_symbol": "AAPL", "balance": "1"}}
					]
				}
			},
			"malformed": [1, 2, 3],
			"empty_category": {}
		}
	}
}`

func assetDocFromFixture(t *testing.T) *entity.AssetWalletsDocument {
	t.Helper()
	var doc entity.AssetWalletsDocument
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(assetWalletsFixture), &doc))
	return &doc
}

func newTestWalletClient(t *testing.T) *fakeBitpandaClient {
	t.Helper()
	return &fakeBitpandaClient{
		fiat: &entity.FiatWalletsDocument{
			Data: []entity.WalletRecord{
				{ID: "f1", Attributes: entity.WalletAttributes{FiatSymbol: "EUR", Balance: "100.00"}},
				{ID: "f2", Attributes: entity.WalletAttributes{Balance: "7"}},
			},
		},
		asset:  assetDocFromFixture(t),
		crypto: &entity.CryptoWalletsDocument{},
	}
}

func TestWalletService_NormalizeTaxonomy(t *testing.T) {
	svc := NewWalletService(zap.NewNop(), newTestWalletClient(t))
	require.NoError(t, svc.Refresh(context.Background()))

	normalized := svc.Normalized()

	require.Contains(t, normalized, "fiat_EUR")
	require.Contains(t, normalized, "cryptocoin_BTC")
	require.Contains(t, normalized, "cryptocoin_ETH")
	require.Contains(t, normalized, "commodity_metal_XAU")
	require.Contains(t, normalized, "index_index_BCI5")
	require.Len(t, normalized, 5)

	xau := normalized["commodity_metal_XAU"]
	require.Equal(t, "commodity_metal", xau.Category)
	require.Equal(t, "XAU", xau.Symbol)
	require.Equal(t, "1.25", xau.Balance)

	fiat := normalized["fiat_EUR"]
	require.Equal(t, "fiat", fiat.Category)
	require.Equal(t, "100.00", fiat.Balance)
}

func TestWalletService_NormalizeSkipsUnpricedCategories(t *testing.T) {
	svc := NewWalletService(zap.NewNop(), newTestWalletClient(t))
	require.NoError(t, svc.Refresh(context.Background()))

	for key := range svc.Normalized() {
		parsed, err := entity.ParseWalletKey(key)
		require.NoError(t, err)
		require.NotEqual(t, "security", parsed.Category)
		require.NotEqual(t, "equity_security", parsed.Category)
	}
}

func TestWalletService_KeysRoundtrip(t *testing.T) {
	svc := NewWalletService(zap.NewNop(), newTestWalletClient(t))
	require.NoError(t, svc.Refresh(context.Background()))

	for flat, wallet := range svc.Normalized() {
		parsed, err := entity.ParseWalletKey(flat)
		require.NoError(t, err)
		require.Equal(t, wallet.Key, parsed)
	}
}

func TestWalletService_EmptyBeforeFirstFetch(t *testing.T) {
	svc := NewWalletService(zap.NewNop(), newTestWalletClient(t))

	require.Nil(t, svc.Snapshot())
	require.Empty(t, svc.Normalized())
}

func TestWalletService_FailedRefreshKeepsSnapshot(t *testing.T) {
	fake := newTestWalletClient(t)
	svc := NewWalletService(zap.NewNop(), fake)
	require.NoError(t, svc.Refresh(context.Background()))

	before := svc.Snapshot()
	require.NotNil(t, before)

	fake.assetErr = errors.New("upstream 502")
	require.Error(t, svc.Refresh(context.Background()))

	// Stale-but-available: the prior snapshot is still served.
	require.Equal(t, before, svc.Snapshot())
	require.Contains(t, svc.Normalized(), "cryptocoin_BTC")
}

func TestWalletService_SequentialFetchStopsOnFirstFailure(t *testing.T) {
	fake := newTestWalletClient(t)
	fake.fiatErr = errors.New("unauthorized")
	svc := NewWalletService(zap.NewNop(), fake)

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "fiat wallets")
	require.Nil(t, svc.Snapshot())
}
