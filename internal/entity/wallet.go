package entity

import (
	"encoding/json"
	"time"
)

// WalletAttributes is the attribute block shared by all wallet records.
// Which symbol field is populated depends on the document: fiat wallets use
// fiat_symbol, everything else uses cryptocoin_symbol.
type WalletAttributes struct {
	FiatSymbol       string `json:"fiat_symbol,omitempty"`
	CryptocoinSymbol string `json:"cryptocoin_symbol,omitempty"`
	Name             string `json:"name,omitempty"`
	Balance          string `json:"balance"`
}

// WalletRecord is a single wallet node as it appears in the upstream
// documents.
type WalletRecord struct {
	Type       string           `json:"type,omitempty"`
	ID         string           `json:"id,omitempty"`
	Attributes WalletAttributes `json:"attributes"`
}

// FiatWalletsDocument is the /fiatwallets response: a flat list of records.
type FiatWalletsDocument struct {
	Data []WalletRecord `json:"data"`
}

// CryptoWalletsDocument is the /wallets response. Same flat shape as the
// fiat document, with cryptocoin_symbol records.
type CryptoWalletsDocument struct {
	Data []WalletRecord `json:"data"`
}

// AssetWalletsDocument is the /asset-wallets response. The category nodes
// under data.attributes are kept raw because their shape varies: a category
// either holds a wallet list directly or one more level of sub-categories.
// The normalizer resolves the two shapes.
type AssetWalletsDocument struct {
	Data struct {
		Type       string                     `json:"type,omitempty"`
		Attributes map[string]json.RawMessage `json:"attributes"`
	} `json:"data"`
}

// WalletSnapshot bundles the three wallet documents fetched within one
// wallet-cadence tick. It is replaced as a whole on success and left
// untouched on failure, so readers never observe a partial update.
type WalletSnapshot struct {
	Fiat      *FiatWalletsDocument
	Asset     *AssetWalletsDocument
	Crypto    *CryptoWalletsDocument
	FetchedAt time.Time
}
