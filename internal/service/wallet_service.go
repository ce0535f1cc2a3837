package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bitpanda_tracker/internal/client"
	"bitpanda_tracker/internal/entity"
	"bitpanda_tracker/internal/port"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var walletJSON = jsoniter.ConfigCompatibleWithStandardLibrary

const walletSnapshotKey = "wallets"

// skippedCategories lists top-level asset categories that have no price
// data upstream and are therefore filtered out of the normalized mapping
// on purpose. A wallet in one of these could never be valued.
var skippedCategories = map[string]struct{}{
	"security":        {},
	"equity_security": {},
}

// categoryNode is the shape of a category (or sub-category) that directly
// holds a wallet list. Category nodes that instead hold a map of
// sub-categories fail to produce Wallets here and are re-decoded as maps.
type categoryNode struct {
	Attributes *struct {
		Wallets []entity.WalletRecord `json:"wallets"`
	} `json:"attributes"`
}

// walletServiceImpl implements the WalletService interface. Like the
// ticker service it keeps the latest snapshot in a single no-expiration
// cache cell; the normalized view is derived on read.
type walletServiceImpl struct {
	logger        *zap.Logger
	client        client.BitpandaClient
	snapshotCache *cache.Cache
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(logger *zap.Logger, bitpandaClient client.BitpandaClient) port.WalletService {
	return &walletServiceImpl{
		logger:        logger.Named("WalletService"),
		client:        bitpandaClient,
		snapshotCache: cache.New(cache.NoExpiration, 0),
	}
}

// Refresh fetches the three wallet documents sequentially. The snapshot is
// swapped in as a whole only after all three succeeded, so a failed or
// cancelled tick never leaves a partial snapshot behind.
func (s *walletServiceImpl) Refresh(ctx context.Context) error {
	fiat, err := s.client.GetFiatWallets(ctx)
	if err != nil {
		return fmt.Errorf("wallet refresh failed on fiat wallets: %w", err)
	}
	asset, err := s.client.GetAssetWallets(ctx)
	if err != nil {
		return fmt.Errorf("wallet refresh failed on asset wallets: %w", err)
	}
	crypto, err := s.client.GetCryptoWallets(ctx)
	if err != nil {
		return fmt.Errorf("wallet refresh failed on crypto wallets: %w", err)
	}

	snapshot := &entity.WalletSnapshot{
		Fiat:      fiat,
		Asset:     asset,
		Crypto:    crypto,
		FetchedAt: time.Now(),
	}
	s.snapshotCache.Set(walletSnapshotKey, snapshot, cache.NoExpiration)
	s.logger.Debug("Wallet snapshot replaced",
		zap.Int("fiatWallets", len(fiat.Data)),
		zap.Int("assetCategories", len(asset.Data.Attributes)),
		zap.Int("cryptoWallets", len(crypto.Data)))
	return nil
}

// Snapshot returns the latest snapshot, nil before the first success.
func (s *walletServiceImpl) Snapshot() *entity.WalletSnapshot {
	v, ok := s.snapshotCache.Get(walletSnapshotKey)
	if !ok {
		return nil
	}
	return v.(*entity.WalletSnapshot)
}

// Normalized implements the WalletService interface.
func (s *walletServiceImpl) Normalized() map[string]entity.NormalizedWallet {
	return s.normalize(s.Snapshot())
}

// normalize walks the fiat and asset documents into the flat
// WalletKey-addressed mapping. The walk is lenient: absent, empty or
// malformed nodes are skipped, since the upstream taxonomy may grow new
// categories at any time. The crypto document is not keyed here — the
// asset document's cryptocoin category already carries those balances.
func (s *walletServiceImpl) normalize(snapshot *entity.WalletSnapshot) map[string]entity.NormalizedWallet {
	normalized := make(map[string]entity.NormalizedWallet)
	if snapshot == nil {
		return normalized
	}

	if snapshot.Fiat != nil {
		for _, record := range snapshot.Fiat.Data {
			symbol := record.Attributes.FiatSymbol
			if symbol == "" {
				s.logger.Debug("Skipping fiat wallet without fiat_symbol", zap.String("id", record.ID))
				continue
			}
			key := entity.WalletKey{Category: "fiat", Symbol: symbol}
			normalized[key.String()] = entity.NormalizedWallet{
				Key:      key,
				Category: key.CategoryLabel(),
				Symbol:   symbol,
				Balance:  record.Attributes.Balance,
			}
		}
	}

	if snapshot.Asset != nil {
		for category, raw := range snapshot.Asset.Data.Attributes {
			if _, skip := skippedCategories[category]; skip {
				s.logger.Debug("Skipping category with no price data", zap.String("category", category))
				continue
			}
			s.normalizeCategory(category, raw, normalized)
		}
	}

	return normalized
}

// normalizeCategory resolves the two category shapes: a node directly
// holding a wallet list, or a map of sub-category nodes each holding one.
func (s *walletServiceImpl) normalizeCategory(category string, raw json.RawMessage, out map[string]entity.NormalizedWallet) {
	var direct categoryNode
	if err := walletJSON.Unmarshal(raw, &direct); err == nil && direct.Attributes != nil && direct.Attributes.Wallets != nil {
		s.appendWallets(entity.WalletKey{Category: category}, direct.Attributes.Wallets, out)
		return
	}

	var subCategories map[string]json.RawMessage
	if err := walletJSON.Unmarshal(raw, &subCategories); err != nil {
		s.logger.Debug("Skipping malformed asset category", zap.String("category", category), zap.Error(err))
		return
	}
	for subCategory, subRaw := range subCategories {
		var node categoryNode
		if err := walletJSON.Unmarshal(subRaw, &node); err != nil || node.Attributes == nil || node.Attributes.Wallets == nil {
			s.logger.Debug("Skipping asset sub-category without wallets",
				zap.String("category", category),
				zap.String("subCategory", subCategory))
			continue
		}
		s.appendWallets(entity.WalletKey{Category: category, Subcategory: subCategory}, node.Attributes.Wallets, out)
	}
}

func (s *walletServiceImpl) appendWallets(base entity.WalletKey, wallets []entity.WalletRecord, out map[string]entity.NormalizedWallet) {
	for _, record := range wallets {
		symbol := record.Attributes.CryptocoinSymbol
		if symbol == "" {
			s.logger.Debug("Skipping asset wallet without cryptocoin_symbol",
				zap.String("category", base.CategoryLabel()),
				zap.String("id", record.ID))
			continue
		}
		key := base
		key.Symbol = symbol
		out[key.String()] = entity.NormalizedWallet{
			Key:      key,
			Category: key.CategoryLabel(),
			Symbol:   symbol,
			Balance:  record.Attributes.Balance,
		}
	}
}
