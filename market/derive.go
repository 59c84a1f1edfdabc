package market

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Derive filters coins whose name or symbol contains filter (case-insensitively)
// and orders them by key. The sort is stable so equal values keep fetch order,
// and coins itself is never modified.
func Derive(coins []Coin, filter string, key SortKey) []Coin {
	needle := strings.ToLower(filter)
	derived := make([]Coin, 0, len(coins))
	for _, coin := range coins {
		if strings.Contains(strings.ToLower(coin.Name), needle) ||
			strings.Contains(strings.ToLower(coin.Symbol), needle) {
			derived = append(derived, coin)
		}
	}

	compare := comparator(key)
	if compare == nil {
		return derived
	}
	sort.SliceStable(derived, func(i, j int) bool {
		return compare(derived[i], derived[j]) < 0
	})
	return derived
}

func comparator(key SortKey) func(a, b Coin) int {
	switch key {
	case SortMarketCapDesc:
		return func(a, b Coin) int { return descending(a.MarketCap, b.MarketCap) }
	case SortPriceDesc:
		return func(a, b Coin) int { return descending(a.CurrentPrice, b.CurrentPrice) }
	case SortPriceAsc:
		return func(a, b Coin) int { return a.CurrentPrice.Cmp(b.CurrentPrice) }
	case SortChangeDesc:
		return func(a, b Coin) int { return descending(a.PriceChangePercentage24h, b.PriceChangePercentage24h) }
	case SortChangeAsc:
		return func(a, b Coin) int { return a.PriceChangePercentage24h.Cmp(b.PriceChangePercentage24h) }
	}
	return nil
}

func descending(a, b decimal.Decimal) int {
	return b.Cmp(a)
}
