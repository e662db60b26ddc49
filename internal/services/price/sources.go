package price

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"pythia/internal/adapters/coingecko"
	binanceclient "pythia/internal/adapters/exchanges/binance"
	"pythia/internal/domain/asset"
)

// KlineSource quotes the closing price of the exchange's one-minute candle
// covering the instant. Exact-minute history is the most accurate source for
// back-dated posts, so it sits first in the chain.
type KlineSource struct {
	client *binanceclient.Client
}

// NewKlineSource creates a kline-backed source
func NewKlineSource(client *binanceclient.Client) *KlineSource {
	return &KlineSource{client: client}
}

func (s *KlineSource) Name() string { return "binance_kline" }

// Quote returns the close of the minute candle containing at
func (s *KlineSource) Quote(ctx context.Context, a asset.Asset, at time.Time) (float64, error) {
	start := at.Truncate(time.Minute)
	end := start.Add(time.Minute)

	kline, err := s.client.GetKline(ctx, a.Symbol(), "1m", start, end)
	if err != nil {
		return 0, err
	}
	if kline == nil {
		return 0, nil
	}
	return toFloat(kline.Close), nil
}

// TickerSource quotes the exchange's live ticker. It ignores the instant and
// exists as the second rung for assets or windows the kline history lacks.
type TickerSource struct {
	client *binanceclient.Client
}

// NewTickerSource creates a ticker-backed source
func NewTickerSource(client *binanceclient.Client) *TickerSource {
	return &TickerSource{client: client}
}

func (s *TickerSource) Name() string { return "binance_ticker" }

// Quote returns the current ticker price, ignoring at
func (s *TickerSource) Quote(ctx context.Context, a asset.Asset, _ time.Time) (float64, error) {
	price, err := s.client.GetTickerPrice(ctx, a.Symbol())
	if err != nil {
		return 0, err
	}
	return toFloat(price), nil
}

// SpotSource quotes the CoinGecko simple-price API, the lowest-fidelity rung
// of the chain.
type SpotSource struct {
	client *coingecko.Client
}

// NewSpotSource creates a CoinGecko-backed source
func NewSpotSource(client *coingecko.Client) *SpotSource {
	return &SpotSource{client: client}
}

func (s *SpotSource) Name() string { return "coingecko_spot" }

// Quote returns the current spot price, ignoring at
func (s *SpotSource) Quote(ctx context.Context, a asset.Asset, _ time.Time) (float64, error) {
	price, err := s.client.SimplePrice(ctx, a.CoinGeckoID())
	if err != nil {
		return 0, err
	}
	return toFloat(price), nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
