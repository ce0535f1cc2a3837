package entity

// TickerSnapshot is the full /ticker response: asset symbol -> currency code
// -> price as the decimal string reported upstream. A snapshot is immutable
// once fetched and is replaced wholesale on every successful refresh.
type TickerSnapshot map[string]map[string]string

// Price returns the raw price string for symbol/currency. The second return
// is false when the symbol or the currency is not present.
func (t TickerSnapshot) Price(symbol, currency string) (string, bool) {
	prices, ok := t[symbol]
	if !ok {
		return "", false
	}
	price, ok := prices[currency]
	if !ok || price == "" {
		return "", false
	}
	return price, true
}

// AllPrices returns every quoted currency for a symbol, nil when the symbol
// is unknown.
func (t TickerSnapshot) AllPrices(symbol string) map[string]string {
	return t[symbol]
}
