package config

import (
	"fmt"
	"strings"

	"github.com/polyrabbit/coin-dashboard/market"
)

const (
	ColumnName         = "Name"
	ColumnSymbol       = "Symbol"
	ColumnPrice        = "Price"
	ColumnChange24hPct = "%Change(24h)"
	ColumnMarketCap    = "MarketCap"
	ColumnImage        = "Image"
)

const (
	LayoutCards = "cards"
	LayoutTable = "table"

	ModeAuto  = "auto"
	ModeTUI   = "tui"
	ModePlain = "plain"
)

func supportedColumns() []string {
	return []string{ColumnName, ColumnSymbol, ColumnPrice, ColumnChange24hPct, ColumnMarketCap}
}

func allColumns() []string {
	return append(supportedColumns(), ColumnImage)
}

type Config struct {
	APIURL  string   `mapstructure:"api_url" yaml:"api_url"`
	Limit   int      `mapstructure:"limit" yaml:"limit"`
	Filter  string   `mapstructure:"filter" yaml:"filter"`
	Sort    string   `mapstructure:"sort" yaml:"sort"`
	Timeout int      `mapstructure:"timeout" yaml:"timeout"`
	Proxy   string   `mapstructure:"proxy" yaml:"proxy"`
	Refresh int      `mapstructure:"refresh" yaml:"refresh"`
	Columns []string `mapstructure:"show" yaml:"show"`
	Layout  string   `mapstructure:"layout" yaml:"layout"`
	Mode    string   `mapstructure:"mode" yaml:"mode"`
	Debug   bool     `mapstructure:"debug" yaml:"debug"`
	LogFile string   `mapstructure:"log_file" yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		APIURL:  "https://api.coingecko.com/api/v3/coins/markets?vs_currency=usd",
		Limit:   10,
		Sort:    string(market.SortMarketCapDesc),
		Timeout: 20,
		Columns: supportedColumns(),
		Layout:  LayoutCards,
		Mode:    ModeAuto,
	}
}

// SortKey is only meaningful after Validate.
func (c *Config) SortKey() market.SortKey {
	return market.SortKey(c.Sort)
}

// Validate rejects settings the dashboard cannot work with. Limit is left
// alone on purpose, whatever the user gives goes straight to the provider.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is empty, set it in the config file, --api-url or COIN_DASHBOARD_API_URL")
	}
	if _, err := market.ParseSortKey(c.Sort); err != nil {
		return fmt.Errorf("sort: %w, expecting one of %v", err, market.SortKeys())
	}
	switch c.Layout {
	case LayoutCards, LayoutTable:
	default:
		return fmt.Errorf("unknown layout %q, expecting %q or %q", c.Layout, LayoutCards, LayoutTable)
	}
	switch c.Mode {
	case ModeAuto, ModeTUI, ModePlain:
	default:
		return fmt.Errorf("unknown mode %q, expecting %q, %q or %q", c.Mode, ModeAuto, ModeTUI, ModePlain)
	}
	for _, col := range c.Columns {
		if !isColumn(col) {
			return fmt.Errorf("unknown column %q, expecting some of %v", col, allColumns())
		}
	}
	return nil
}

func isColumn(name string) bool {
	for _, col := range allColumns() {
		if strings.EqualFold(col, name) {
			return true
		}
	}
	return false
}
