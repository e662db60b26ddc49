package asset

import (
	"strings"

	"pythia/pkg/errors"
)

// Asset is the closed set of cryptocurrencies the service can price.
// The zero value is Unsupported so an unmapped keyword can never be
// mistaken for a real asset.
type Asset int

const (
	Unsupported Asset = iota
	Bitcoin
	Ethereum
	Litecoin
	Ripple
	Solana
	Dogecoin
)

type assetInfo struct {
	name        string
	symbol      string // exchange ticker symbol (USDT pair)
	coinGeckoID string
}

var infos = map[Asset]assetInfo{
	Bitcoin:  {name: "Bitcoin", symbol: "BTCUSDT", coinGeckoID: "bitcoin"},
	Ethereum: {name: "Ethereum", symbol: "ETHUSDT", coinGeckoID: "ethereum"},
	Litecoin: {name: "Litecoin", symbol: "LTCUSDT", coinGeckoID: "litecoin"},
	Ripple:   {name: "Ripple", symbol: "XRPUSDT", coinGeckoID: "ripple"},
	Solana:   {name: "Solana", symbol: "SOLUSDT", coinGeckoID: "solana"},
	Dogecoin: {name: "Dogecoin", symbol: "DOGEUSDT", coinGeckoID: "dogecoin"},
}

var byKeyword = map[string]Asset{
	"bitcoin":  Bitcoin,
	"btc":      Bitcoin,
	"ethereum": Ethereum,
	"eth":      Ethereum,
	"litecoin": Litecoin,
	"ltc":      Litecoin,
	"ripple":   Ripple,
	"xrp":      Ripple,
	"solana":   Solana,
	"sol":      Solana,
	"dogecoin": Dogecoin,
	"doge":     Dogecoin,
}

// FromKeyword maps a batch keyword to a known asset.
// Matching is case-insensitive and accepts common ticker aliases.
func FromKeyword(keyword string) (Asset, error) {
	a, ok := byKeyword[strings.ToLower(strings.TrimSpace(keyword))]
	if !ok {
		return Unsupported, errors.Wrapf(errors.ErrUnsupportedAsset, "keyword %q", keyword)
	}
	return a, nil
}

// String returns the canonical asset name
func (a Asset) String() string {
	if info, ok := infos[a]; ok {
		return info.name
	}
	return "Unsupported"
}

// Symbol returns the exchange ticker symbol for the asset's USDT pair
func (a Asset) Symbol() string {
	return infos[a].symbol
}

// CoinGeckoID returns the asset's identifier on the CoinGecko API
func (a Asset) CoinGeckoID() string {
	return infos[a].coinGeckoID
}

// Supported reports whether the asset is a member of the known set
func (a Asset) Supported() bool {
	_, ok := infos[a]
	return ok
}
