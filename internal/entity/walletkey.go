package entity

import (
	"fmt"
	"strings"
)

// WalletKey locates one wallet within the nested taxonomy. It is the
// structured form; the flattened "<category>[_<sub>]_<symbol>" string only
// exists at the configuration and API boundary. Upstream symbols carry no
// underscores today, which is what makes the flat form parseable at all.
type WalletKey struct {
	Category    string
	Subcategory string
	Symbol      string
}

// String flattens the key to its boundary representation, e.g.
// "cryptocoin_BTC" or "commodity_metal_XAU".
func (k WalletKey) String() string {
	if k.Subcategory != "" {
		return k.Category + "_" + k.Subcategory + "_" + k.Symbol
	}
	return k.Category + "_" + k.Symbol
}

// CategoryLabel is the category as reported to consumers, including the
// sub-category when present ("commodity_metal", "fiat", ...).
func (k WalletKey) CategoryLabel() string {
	if k.Subcategory != "" {
		return k.Category + "_" + k.Subcategory
	}
	return k.Category
}

// ParseWalletKey is the inverse of String for well-formed keys. Three or
// more segments mean category + sub-category, with the remainder as the
// symbol; two segments mean a direct category.
func ParseWalletKey(raw string) (WalletKey, error) {
	parts := strings.Split(raw, "_")
	switch {
	case len(parts) >= 3:
		return WalletKey{
			Category:    parts[0],
			Subcategory: parts[1],
			Symbol:      strings.Join(parts[2:], "_"),
		}, nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return WalletKey{Category: parts[0], Symbol: parts[1]}, nil
	default:
		return WalletKey{}, fmt.Errorf("invalid wallet key %q: expected <category>[_<subcategory>]_<symbol>", raw)
	}
}
