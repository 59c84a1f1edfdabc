package market

import (
	"testing"

	"github.com/pkg/errors"
)

const bitcoinPayload = `[{"id":"btc","name":"Bitcoin","symbol":"btc","image":"x","current_price":50000,` +
	`"price_change_percentage_24h":2.5,"market_cap":900000000000,"total_volume":123}]`

func TestDecodeCoins(t *testing.T) {

	t.Run("decode a single coin", func(t *testing.T) {
		coins, err := DecodeCoins([]byte(bitcoinPayload))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(coins) != 1 {
			t.Fatalf("Expecting 1 coin, got %d", len(coins))
		}
		c := coins[0]
		if c.ID != "btc" || c.Name != "Bitcoin" || c.Symbol != "btc" || c.Image != "x" {
			t.Fatalf("Unexpected coin %+v", c)
		}
		if c.CurrentPrice.String() != "50000" || c.PriceChangePercentage24h.String() != "2.5" ||
			c.MarketCap.String() != "900000000000" {
			t.Fatalf("Unexpected numbers %s %s %s", c.CurrentPrice, c.PriceChangePercentage24h, c.MarketCap)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		coins, err := DecodeCoins([]byte(" [] "))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if coins == nil || len(coins) != 0 {
			t.Fatalf("Expecting an empty, non-nil slice, got %v", coins)
		}
	})

	t.Run("null numbers and missing image", func(t *testing.T) {
		coins, err := DecodeCoins([]byte(`[{"id":"new","name":"New","symbol":"nw","current_price":0.1,` +
			`"price_change_percentage_24h":null,"market_cap":null}]`))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !coins[0].PriceChangePercentage24h.IsZero() || !coins[0].MarketCap.IsZero() || coins[0].Image != "" {
			t.Fatalf("Unexpected coin %+v", coins[0])
		}
	})

	t.Run("escaped strings", func(t *testing.T) {
		coins, err := DecodeCoins([]byte(`[{"id":"a","name":"A \"quoted\" coin","symbol":"a",` +
			`"current_price":1e3,"price_change_percentage_24h":-0.5,"market_cap":10}]`))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if coins[0].Name != `A "quoted" coin` {
			t.Fatalf("Unexpected name %q", coins[0].Name)
		}
		if coins[0].CurrentPrice.String() != "1000" {
			t.Fatalf("Unexpected price %s", coins[0].CurrentPrice)
		}
	})

	malformed := map[string]string{
		"not json":         `<html>rate limited</html>`,
		"empty body":       ``,
		"object":           `{"error":"coin not found"}`,
		"array of numbers": `[1,2,3]`,
		"missing id":       `[{"name":"Bitcoin","symbol":"btc","current_price":1,"price_change_percentage_24h":1,"market_cap":1}]`,
		"numeric name":     `[{"id":"b","name":7,"symbol":"btc","current_price":1,"price_change_percentage_24h":1,"market_cap":1}]`,
		"string price":     `[{"id":"b","name":"B","symbol":"btc","current_price":"1","price_change_percentage_24h":1,"market_cap":1}]`,
		"missing cap":      `[{"id":"b","name":"B","symbol":"btc","current_price":1,"price_change_percentage_24h":1}]`,
		"numeric image":    `[{"id":"b","name":"B","symbol":"btc","image":3,"current_price":1,"price_change_percentage_24h":1,"market_cap":1}]`,
	}
	for name, body := range malformed {
		body := body
		t.Run("malformed "+name, func(t *testing.T) {
			_, err := DecodeCoins([]byte(body))
			if err == nil {
				t.Fatalf("Expecting an error for %s", body)
			}
			if errors.Cause(err) != ErrMalformedResponse {
				t.Fatalf("Expecting ErrMalformedResponse, got %v", err)
			}
		})
	}
}
