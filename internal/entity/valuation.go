package entity

// NormalizedWallet is one flattened taxonomy entry produced by the
// normalizer: the structured key plus the fields consumers join on.
type NormalizedWallet struct {
	Key      WalletKey
	Category string // label including sub-category, e.g. "commodity_metal"
	Symbol   string
	Balance  string // raw decimal string as reported upstream
}

// AssetPrice is the host-facing price point for one tracked asset.
// Price is nil when the symbol or currency is absent from the latest
// ticker snapshot.
type AssetPrice struct {
	Asset       string            `json:"asset"`
	Currency    string            `json:"currency"`
	TradingPair string            `json:"trading_pair"`
	Price       *float64          `json:"price"`
	Precision   int               `json:"precision"`
	AllPrices   map[string]string `json:"all_prices,omitempty"`
}

// WalletValuation is the host-facing valuation of one tracked wallet.
// Value is the balance alone when no price is resolvable, balance times
// price otherwise, and nil when the wallet is absent or a numeric string
// does not parse.
type WalletValuation struct {
	WalletID  string   `json:"wallet_id"`
	Asset     string   `json:"asset"`
	Category  string   `json:"category"`
	Balance   string   `json:"balance,omitempty"`
	Price     string   `json:"price,omitempty"`
	Currency  string   `json:"currency"`
	Value     *float64 `json:"value"`
	Precision int      `json:"precision"`
}
