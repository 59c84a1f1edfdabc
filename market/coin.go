package market

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Coin is one market entry as returned by the provider. It's an immutable
// snapshot, nothing ties two fetches together except ID.
type Coin struct {
	ID                       string
	Name                     string
	Symbol                   string
	Image                    string
	CurrentPrice             decimal.Decimal
	PriceChangePercentage24h decimal.Decimal
	MarketCap                decimal.Decimal
}

// SortKey doubles as the provider's "order" query parameter.
type SortKey string

const (
	SortMarketCapDesc SortKey = "market_cap_desc"
	SortPriceDesc     SortKey = "price_desc"
	SortPriceAsc      SortKey = "price_asc"
	SortChangeDesc    SortKey = "change_desc"
	SortChangeAsc     SortKey = "change_asc"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

var sortLabels = map[SortKey]string{
	SortMarketCapDesc: "Market Cap (High to Low)",
	SortPriceDesc:     "Price (High to Low)",
	SortPriceAsc:      "Price (Low to High)",
	SortChangeDesc:    "24h Change (High to Low)",
	SortChangeAsc:     "24h Change (Low to High)",
}

// SortKeys returns every key in the order a selector should offer them.
func SortKeys() []SortKey {
	return []SortKey{SortMarketCapDesc, SortPriceDesc, SortPriceAsc, SortChangeDesc, SortChangeAsc}
}

func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(s)
	if _, ok := sortLabels[key]; !ok {
		return "", errors.Wrapf(ErrUnknownSortKey, "%q", s)
	}
	return key, nil
}

func (k SortKey) Valid() bool {
	_, ok := sortLabels[k]
	return ok
}

func (k SortKey) Label() string {
	if label, ok := sortLabels[k]; ok {
		return label
	}
	return string(k)
}

// Next cycles through SortKeys, wrapping around. Unknown keys restart at the first one.
func (k SortKey) Next(step int) SortKey {
	keys := SortKeys()
	for i, key := range keys {
		if key == k {
			n := len(keys)
			return keys[((i+step)%n+n)%n]
		}
	}
	return keys[0]
}
