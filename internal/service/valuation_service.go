package service

import (
	"strings"

	"bitpanda_tracker/internal/entity"
	"bitpanda_tracker/internal/port"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// walletDisplayPrecision is fixed for wallet valuations regardless of
	// the price precision rules.
	walletDisplayPrecision = 2
	// maxPricePrecision caps the decimal digits carried over from the
	// upstream price string.
	maxPricePrecision = 8
)

// valuationServiceImpl implements the ValuationService interface. It reads
// the two snapshot cells by reference at evaluation time; the cadences are
// not synchronized, so there is no combined pushed state to consume.
type valuationServiceImpl struct {
	logger    *zap.Logger
	tickerSvc port.TickerService
	walletSvc port.WalletService
}

// NewValuationService creates a new instance of ValuationService.
func NewValuationService(logger *zap.Logger, tickerSvc port.TickerService, walletSvc port.WalletService) port.ValuationService {
	return &valuationServiceImpl{
		logger:    logger.Named("ValuationService"),
		tickerSvc: tickerSvc,
		walletSvc: walletSvc,
	}
}

// AssetPrice resolves the tracked asset's price point from the latest
// ticker snapshot. Price stays nil when the symbol or currency is unknown.
func (s *valuationServiceImpl) AssetPrice(symbol, currency string) entity.AssetPrice {
	result := entity.AssetPrice{
		Asset:       symbol,
		Currency:    currency,
		TradingPair: symbol + "/" + currency,
		Precision:   walletDisplayPrecision,
		AllPrices:   s.tickerSvc.AllPrices(symbol),
	}

	raw, ok := s.tickerSvc.Lookup(symbol, currency)
	if !ok {
		return result
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		s.logger.Warn("Ticker returned a non-numeric price",
			zap.String("asset", symbol),
			zap.String("currency", currency),
			zap.String("price", raw))
		return result
	}

	value, _ := price.Float64()
	result.Price = &value
	result.Precision = pricePrecision(raw, price)
	return result
}

// WalletValuation joins a tracked wallet with the latest price lookup.
// No resolvable price degrades to balance passthrough; a non-numeric
// balance or price yields an unknown value without affecting siblings.
func (s *valuationServiceImpl) WalletValuation(key entity.WalletKey, currency string) entity.WalletValuation {
	result := entity.WalletValuation{
		WalletID:  key.String(),
		Asset:     key.Symbol,
		Category:  key.CategoryLabel(),
		Currency:  currency,
		Precision: walletDisplayPrecision,
	}

	wallet, ok := s.walletSvc.Normalized()[key.String()]
	if !ok {
		s.logger.Debug("Tracked wallet not present in latest snapshot", zap.String("walletId", result.WalletID))
		return result
	}
	result.Balance = wallet.Balance

	balance, err := decimal.NewFromString(wallet.Balance)
	if err != nil {
		s.logger.Warn("Wallet has a non-numeric balance",
			zap.String("walletId", result.WalletID),
			zap.String("balance", wallet.Balance))
		return result
	}

	rawPrice, priceOK := s.tickerSvc.Lookup(key.Symbol, currency)
	if !priceOK {
		// No tracked market price for this asset; report the bare balance.
		value, _ := balance.Float64()
		result.Value = &value
		return result
	}
	result.Price = rawPrice

	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		s.logger.Warn("Ticker returned a non-numeric price for wallet",
			zap.String("walletId", result.WalletID),
			zap.String("price", rawPrice))
		return result
	}

	value, _ := balance.Mul(price).Float64()
	result.Value = &value
	return result
}

// pricePrecision derives the display-precision hint for a price. The
// decimal-digit count of the original upstream string wins (capped at 8)
// so upstream-reported precision survives; a string without a fractional
// part falls back to the magnitude table.
func pricePrecision(raw string, price decimal.Decimal) int {
	if price.IsZero() {
		return 2
	}
	if i := strings.IndexByte(raw, '.'); i >= 0 && i < len(raw)-1 {
		digits := len(raw) - i - 1
		if digits > maxPricePrecision {
			return maxPricePrecision
		}
		return digits
	}
	return magnitudePrecision(price)
}

func magnitudePrecision(price decimal.Decimal) int {
	abs := price.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return 2
	case abs.GreaterThanOrEqual(decimal.NewFromInt(10)):
		return 2
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return 4
	case abs.GreaterThanOrEqual(decimal.RequireFromString("0.1")):
		return 5
	case abs.GreaterThanOrEqual(decimal.RequireFromString("0.01")):
		return 5
	case abs.GreaterThanOrEqual(decimal.RequireFromString("0.001")):
		return 6
	case abs.GreaterThanOrEqual(decimal.RequireFromString("0.0001")):
		return 7
	default:
		return 8
	}
}
