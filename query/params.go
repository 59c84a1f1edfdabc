package query

import (
	"strconv"
	"strings"

	"github.com/polyrabbit/coin-dashboard/market"
)

// Params are the knobs a user can turn. Limit and Sort go into the request
// URL, Filter is only ever applied to data already fetched.
type Params struct {
	Limit  int
	Filter string
	Sort   market.SortKey
}

func DefaultParams() Params {
	return Params{Limit: 10, Filter: "", Sort: market.SortMarketCapDesc}
}

// URL appends the fetch-relevant parameters to base, which normally already
// carries its own query (eg. "...markets?vs_currency=usd").
func (p Params) URL(base string) string {
	sep := "&"
	if !strings.Contains(base, "?") {
		sep = "?"
	}
	return base + sep + "order=" + string(p.Sort) +
		"&per_page=" + strconv.Itoa(p.Limit) +
		"&page=1&sparkline=false"
}
