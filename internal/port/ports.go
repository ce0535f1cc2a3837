package port

import (
	"context"

	"bitpanda_tracker/internal/entity"
)

// TickerService owns the latest price snapshot and resolves price lookups
// against it.
type TickerService interface {
	// Refresh fetches a fresh ticker snapshot and swaps it in on success.
	// On failure the previous snapshot is retained.
	Refresh(ctx context.Context) error

	// Snapshot returns the latest snapshot, nil before the first
	// successful fetch.
	Snapshot() entity.TickerSnapshot

	// Lookup resolves the raw price string for symbol/currency from the
	// latest snapshot. ok is false when the snapshot, the symbol or the
	// currency is absent; it never fails otherwise.
	Lookup(symbol, currency string) (price string, ok bool)

	// AllPrices returns every quoted currency for a symbol, nil when
	// unknown.
	AllPrices(symbol string) map[string]string

	// AvailableCurrencies probes upstream for selectable display
	// currencies. fromFallback is true when the static default list was
	// substituted.
	AvailableCurrencies(ctx context.Context) (currencies []string, fromFallback bool)
}

// WalletService owns the latest wallet snapshot and its normalized view.
type WalletService interface {
	// Refresh fetches the fiat, asset and crypto wallet documents
	// sequentially and swaps the snapshot in only when all three
	// succeeded.
	Refresh(ctx context.Context) error

	// Snapshot returns the latest wallet snapshot, nil before the first
	// successful fetch.
	Snapshot() *entity.WalletSnapshot

	// Normalized flattens the latest snapshot into the WalletKey-addressed
	// map. Empty before the first successful fetch.
	Normalized() map[string]entity.NormalizedWallet
}

// ValuationService joins normalized wallets with price lookups into the
// host-facing values.
type ValuationService interface {
	AssetPrice(symbol, currency string) entity.AssetPrice
	WalletValuation(key entity.WalletKey, currency string) entity.WalletValuation
}

// RefreshService drives the two refresh cadences.
type RefreshService interface {
	// Start performs one synchronous refresh per cadence and returns an
	// error if either fails. On success it launches the periodic loops,
	// which run until ctx is cancelled.
	Start(ctx context.Context) error

	LastPriceUpdateOK() bool
	LastWalletUpdateOK() bool
}
