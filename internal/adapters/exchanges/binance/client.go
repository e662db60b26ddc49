package binance

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"context"

	"github.com/shopspring/decimal"

	"pythia/internal/adapters/exchanges/ratelimit"
	"pythia/pkg/errors"
)

const (
	defaultBaseURL      = "https://api.binance.com"
	defaultHTTPTimeout  = 10 * time.Second
	defaultRequestsPerM = 1200
)

// Config configures the Binance market-data client. Only public endpoints are
// used, so no API credentials are required.
type Config struct {
	BaseURL           string
	RequestsPerMinute int

	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client is a read-only Binance spot market-data client
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewClient creates a new Binance client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = defaultRequestsPerM
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultHTTPTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    ratelimit.NewLimiter("binance", cfg.RequestsPerMinute),
	}
}

// Kline is one fixed-interval candle
type Kline struct {
	OpenTime  time.Time
	CloseTime time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

// GetKline fetches the single candle of the given interval that covers the
// [start, end) window. A nil result with nil error means the exchange has no
// data for that window.
func (c *Client) GetKline(ctx context.Context, symbol, interval string, start, end time.Time) (*Kline, error) {
	params := url.Values{
		"symbol":    []string{normalizeSymbol(symbol)},
		"interval":  []string{interval},
		"startTime": []string{strconv.FormatInt(start.UnixMilli(), 10)},
		"endTime":   []string{strconv.FormatInt(end.UnixMilli(), 10)},
		"limit":     []string{"1"},
	}

	data, err := c.get(ctx, "/api/v3/klines", params)
	if err != nil {
		return nil, err
	}

	var raw [][]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, nil
	}

	row := raw[0]
	if len(row) < 7 {
		return nil, errors.Newf("binance kline row has %d fields", len(row))
	}

	return &Kline{
		OpenTime:  time.UnixMilli(toInt64(row[0])),
		CloseTime: time.UnixMilli(toInt64(row[6])),
		Open:      parseDecimal(fmt.Sprint(row[1])),
		High:      parseDecimal(fmt.Sprint(row[2])),
		Low:       parseDecimal(fmt.Sprint(row[3])),
		Close:     parseDecimal(fmt.Sprint(row[4])),
		Volume:    parseDecimal(fmt.Sprint(row[5])),
	}, nil
}

// GetTickerPrice fetches the current ticker price for a symbol
func (c *Client) GetTickerPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{"symbol": []string{normalizeSymbol(symbol)}}

	data, err := c.get(ctx, "/api/v3/ticker/price", params)
	if err != nil {
		return decimal.Zero, err
	}

	var res struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}

	if err := json.Unmarshal(data, &res); err != nil {
		return decimal.Zero, err
	}

	return parseDecimal(res.Price), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.cfg.BaseURL + path
	if query := params.Encode(); query != "" {
		reqURL = reqURL + "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, parseAPIError(resp.StatusCode, payload)
	}

	return payload, nil
}

func parseAPIError(status int, payload []byte) error {
	var apiErr struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.Code != 0 {
		if apiErr.Code == -1003 {
			return errors.Wrapf(errors.ErrRateLimitExceeded, "%s", apiErr.Msg)
		}
		if apiErr.Code == -1121 {
			return errors.Wrapf(errors.ErrInvalidSymbol, "%s", apiErr.Msg)
		}
		return errors.Newf("binance error %d: %s", apiErr.Code, apiErr.Msg)
	}
	return errors.Newf("binance http %d: %s", status, string(payload))
}

func parseDecimal(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toInt64(v interface{}) int64 {
	switch val := v.(type) {
	case float64:
		return int64(val)
	case int64:
		return val
	case json.Number:
		i, _ := val.Int64()
		return i
	default:
		num, _ := strconv.ParseInt(fmt.Sprint(v), 10, 64)
		return num
	}
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "-", ""))
}
