package market

import (
	"bytes"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrMalformedResponse is the cause of every error returned by DecodeCoins.
var ErrMalformedResponse = errors.New("malformed response")

// DecodeCoins checks that body is a JSON array of coin objects and converts it.
// Numeric fields sent as null (the provider does that for freshly listed coins) become zero.
func DecodeCoins(body []byte) ([]Coin, error) {
	if _, dataType, _, err := jsonparser.Get(bytes.TrimSpace(body)); err != nil {
		return nil, errors.Wrap(ErrMalformedResponse, err.Error())
	} else if dataType != jsonparser.Array {
		return nil, errors.Wrapf(ErrMalformedResponse, "expecting an array, got %s", dataType)
	}

	var (
		coins    []Coin
		firstErr error
		index    int
	)
	_, err := jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		defer func() { index++ }()
		if firstErr != nil {
			return
		}
		if dataType != jsonparser.Object {
			firstErr = errors.Wrapf(ErrMalformedResponse, "element %d is %s, expecting an object", index, dataType)
			return
		}
		coin, err := decodeCoin(value)
		if err != nil {
			firstErr = errors.WithMessagef(err, "element %d", index)
			return
		}
		coins = append(coins, coin)
	})
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResponse, err.Error())
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if coins == nil {
		coins = []Coin{}
	}
	return coins, nil
}

func decodeCoin(obj []byte) (coin Coin, err error) {
	if coin.ID, err = requiredString(obj, "id"); err != nil {
		return
	}
	if coin.Name, err = requiredString(obj, "name"); err != nil {
		return
	}
	if coin.Symbol, err = requiredString(obj, "symbol"); err != nil {
		return
	}
	if coin.Image, err = optionalString(obj, "image"); err != nil {
		return
	}
	if coin.CurrentPrice, err = number(obj, "current_price"); err != nil {
		return
	}
	if coin.PriceChangePercentage24h, err = number(obj, "price_change_percentage_24h"); err != nil {
		return
	}
	coin.MarketCap, err = number(obj, "market_cap")
	return
}

func requiredString(obj []byte, key string) (string, error) {
	value, dataType, _, err := jsonparser.Get(obj, key)
	if err == jsonparser.KeyPathNotFoundError {
		return "", errors.Wrapf(ErrMalformedResponse, "missing %q", key)
	}
	if err != nil {
		return "", errors.Wrapf(ErrMalformedResponse, "%q: %v", key, err)
	}
	if dataType != jsonparser.String {
		return "", errors.Wrapf(ErrMalformedResponse, "%q is %s, expecting a string", key, dataType)
	}
	s, err := jsonparser.ParseString(value)
	if err != nil {
		return "", errors.Wrapf(ErrMalformedResponse, "%q: %v", key, err)
	}
	return s, nil
}

func optionalString(obj []byte, key string) (string, error) {
	_, dataType, _, err := jsonparser.Get(obj, key)
	if err == jsonparser.KeyPathNotFoundError || (err == nil && dataType == jsonparser.Null) {
		return "", nil
	}
	return requiredString(obj, key)
}

func number(obj []byte, key string) (decimal.Decimal, error) {
	value, dataType, _, err := jsonparser.Get(obj, key)
	if err == jsonparser.KeyPathNotFoundError {
		return decimal.Zero, errors.Wrapf(ErrMalformedResponse, "missing %q", key)
	}
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrMalformedResponse, "%q: %v", key, err)
	}
	switch dataType {
	case jsonparser.Null:
		return decimal.Zero, nil
	case jsonparser.Number:
		d, err := decimal.NewFromString(string(value))
		if err != nil {
			return decimal.Zero, errors.Wrapf(ErrMalformedResponse, "%q: %v", key, err)
		}
		return d, nil
	}
	return decimal.Zero, errors.Wrapf(ErrMalformedResponse, "%q is %s, expecting a number", key, dataType)
}
