package service

import (
	"context"

	"bitpanda_tracker/internal/entity"
)

// fakeBitpandaClient satisfies client.BitpandaClient for service tests.
type fakeBitpandaClient struct {
	ticker    entity.TickerSnapshot
	tickerErr error
	fiat      *entity.FiatWalletsDocument
	fiatErr   error
	asset     *entity.AssetWalletsDocument
	assetErr  error
	crypto    *entity.CryptoWalletsDocument
	cryptoErr error
}

func (f *fakeBitpandaClient) GetTicker(ctx context.Context) (entity.TickerSnapshot, error) {
	if f.tickerErr != nil {
		return nil, f.tickerErr
	}
	return f.ticker, nil
}

func (f *fakeBitpandaClient) GetFiatWallets(ctx context.Context) (*entity.FiatWalletsDocument, error) {
	if f.fiatErr != nil {
		return nil, f.fiatErr
	}
	return f.fiat, nil
}

func (f *fakeBitpandaClient) GetAssetWallets(ctx context.Context) (*entity.AssetWalletsDocument, error) {
	if f.assetErr != nil {
		return nil, f.assetErr
	}
	return f.asset, nil
}

func (f *fakeBitpandaClient) GetCryptoWallets(ctx context.Context) (*entity.CryptoWalletsDocument, error) {
	if f.cryptoErr != nil {
		return nil, f.cryptoErr
	}
	return f.crypto, nil
}

func (f *fakeBitpandaClient) AvailableCurrencies(ctx context.Context) ([]string, bool) {
	if f.tickerErr != nil || len(f.ticker) == 0 {
		return []string{"EUR", "USD", "CHF", "GBP"}, true
	}
	for _, prices := range f.ticker {
		currencies := make([]string, 0, len(prices))
		for currency := range prices {
			currencies = append(currencies, currency)
		}
		return currencies, false
	}
	return nil, true
}

func (f *fakeBitpandaClient) AvailableAssets(ctx context.Context) []string {
	assets := make([]string, 0, len(f.ticker))
	for symbol := range f.ticker {
		assets = append(assets, symbol)
	}
	return assets
}

func (f *fakeBitpandaClient) TestConnection(ctx context.Context) bool {
	return f.fiatErr == nil
}
